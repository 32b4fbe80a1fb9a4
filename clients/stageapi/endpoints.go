package stageapi

const (
	// API Endpoints
	SessionByCodeEndpoint = "/api/v1/sessions/by-code/%s"

	JoinAnonymousEndpoint  = "/api/v1/sessions/%s/join/anonymous"
	JoinRegisteredEndpoint = "/api/v1/sessions/%s/join/registered"
	JoinGuestEndpoint      = "/api/v1/sessions/%s/join/guest"

	EmailCodeRequestEndpoint = "/api/v1/sessions/%s/auth/email/request"
	EmailCodeVerifyEndpoint  = "/api/v1/sessions/%s/auth/email/verify"

	HeartbeatEndpoint = "/api/v1/sessions/%s/heartbeat?entry_mode=%s"

	SessionModulesEndpoint   = "/api/v1/sessions/%s/modules"
	SessionModuleEndpoint    = "/api/v1/sessions/%s/modules/%s"
	ModuleActivateEndpoint   = "/api/v1/sessions/%s/modules/%s/activate"
	ModuleDeactivateEndpoint = "/api/v1/sessions/%s/modules/%s/deactivate"

	QuestionsEndpoint    = "/api/v1/sessions/%s/modules/%s/questions"
	QuestionLikeEndpoint = "/api/v1/sessions/%s/modules/%s/questions/%s/like"
	QuestionPinEndpoint  = "/api/v1/sessions/%s/modules/%s/questions/%s/pin"

	TimerEndpoint       = "/api/v1/sessions/%s/modules/%s/timer"
	TimerActionEndpoint = "/api/v1/sessions/%s/modules/%s/timer/%s"

	ParticipantsEndpoint = "/api/v1/sessions/%s/participants"
)

// Timer action verbs appended to TimerActionEndpoint.
const (
	TimerActionStart  = "start"
	TimerActionPause  = "pause"
	TimerActionResume = "resume"
	TimerActionReset  = "reset"
)
