// Package assistant owns the conversation loop: it hands the transcript to
// the model, executes whichever tool the model selects, folds the result
// back into the transcript, and returns the model's final reply.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/medkartei/medkartei/agent/contract"
	toolx "github.com/medkartei/medkartei/agent/tool"
)

// maxToolRounds bounds model->tool->model cycles within one user turn.
const maxToolRounds = 4

const apologyReply = "Sorry, I couldn't complete that request right now. Please try again in a moment."

type Assistant struct {
	model contractx.ChatModel
	tools contractx.ToolGateway
}

func New(model contractx.ChatModel, tools contractx.ToolGateway) (*Assistant, error) {
	if model == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	return &Assistant{model: model, tools: tools}, nil
}

// HandleMessage runs one user turn to completion. Tool-argument problems are
// folded back into the transcript so the model can re-ask the user; a
// provider outage ends the turn with a generic apology instead of an error
// so the conversation survives.
func (a *Assistant) HandleMessage(ctx context.Context, conv *Conversation, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.messages = append(conv.messages, openai.UserMessage(text))

	for round := 0; round <= maxToolRounds; round++ {
		msg, err := a.model.Complete(ctx, conv.messages, toolx.Infos())
		if err != nil {
			return "", err
		}

		if len(msg.ToolCalls) == 0 {
			reply := strings.TrimSpace(msg.Content)
			if reply == "" {
				return "", fmt.Errorf("%w: empty completion", contractx.ErrSchemaViolation)
			}
			conv.messages = append(conv.messages, msg.ToParam())
			return reply, nil
		}

		conv.messages = append(conv.messages, msg.ToParam())

		providerDown := false
		for _, call := range msg.ToolCalls {
			content, down, err := a.runTool(ctx, conv.ID(), call)
			if err != nil {
				return "", err
			}
			providerDown = providerDown || down
			conv.messages = append(conv.messages, openai.ToolMessage(content, call.ID))
		}

		if providerDown {
			conv.messages = append(conv.messages, openai.AssistantMessage(apologyReply))
			return apologyReply, nil
		}
	}

	return "", fmt.Errorf("%w: tool rounds exhausted", contractx.ErrModelInvoke)
}

func (a *Assistant) runTool(ctx context.Context, convID string, call openai.ChatCompletionMessageToolCall) (content string, providerDown bool, err error) {
	req := contractx.ToolRequest{
		Tool: call.Function.Name,
		Args: json.RawMessage(call.Function.Arguments),
	}

	res, err := a.tools.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, contractx.ErrProviderUnavailable) {
			log.Warn().Err(err).Str("conversation", convID).Str("tool", req.Tool).Msg("provider unavailable")
			return "the external provider could not be reached", true, nil
		}
		return "", false, err
	}

	if res.Error != "" {
		log.Debug().Str("conversation", convID).Str("tool", req.Tool).Str("tool_error", res.Error).Msg("tool reported an error")
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return "", false, fmt.Errorf("marshal tool result for %s: %w", req.Tool, err)
	}
	return string(payload), false, nil
}
