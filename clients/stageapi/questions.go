package stageapi

import (
	"context"
	"fmt"

	"github.com/crowdstage/live/internal/models"
)

type questionsResponse struct {
	Questions []models.Question `json:"questions"`
}

type createQuestionRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Questions lists the question tree for a board module. LikedByMe is
// resolved against the bearer's participant identity.
func (c *Client) Questions(ctx context.Context, sessionID, moduleID, bearer string) ([]models.Question, error) {
	var resp questionsResponse
	if err := c.GetJSON(ctx, fmt.Sprintf(QuestionsEndpoint, sessionID, moduleID), bearer, &resp); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return resp.Questions, nil
}

// CreateQuestion posts a new question or, with parentID set, a reply.
// Submission throttling surfaces as a 429 *clients.APIError.
func (c *Client) CreateQuestion(ctx context.Context, sessionID, moduleID, bearer, content string, parentID *string) (*models.Question, error) {
	var created models.Question
	req := createQuestionRequest{Content: content, ParentID: parentID}
	if err := c.PostJSON(ctx, fmt.Sprintf(QuestionsEndpoint, sessionID, moduleID), bearer, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// LikeQuestion records the bearer's like on a question.
func (c *Client) LikeQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error {
	return c.PostJSON(ctx, fmt.Sprintf(QuestionLikeEndpoint, sessionID, moduleID, questionID), bearer, nil, nil)
}

// UnlikeQuestion removes the bearer's like.
func (c *Client) UnlikeQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error {
	return c.Delete(ctx, fmt.Sprintf(QuestionLikeEndpoint, sessionID, moduleID, questionID), bearer)
}

// PinQuestion pins a question to the top of the board. Presenter only.
func (c *Client) PinQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error {
	return c.PostJSON(ctx, fmt.Sprintf(QuestionPinEndpoint, sessionID, moduleID, questionID), bearer, nil, nil)
}

// UnpinQuestion removes a pin.
func (c *Client) UnpinQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error {
	return c.Delete(ctx, fmt.Sprintf(QuestionPinEndpoint, sessionID, moduleID, questionID), bearer)
}
