package services

import (
	"context"
	"fmt"
	"net/http"
)

// Assessor asks a language model how well a resume matches a job description.
// Failures are reported inside the Reply, never as a Go error.
type Assessor interface {
	Assess(ctx context.Context, resumeText, jobDescription string) Reply
}

type ReplyKind int

const (
	ReplySuccess ReplyKind = iota
	ReplyConfigError
	ReplyRemoteError
	ReplyTransportError
	ReplyEmpty
)

func (k ReplyKind) String() string {
	switch k {
	case ReplySuccess:
		return "success"
	case ReplyConfigError:
		return "config_error"
	case ReplyRemoteError:
		return "remote_error"
	case ReplyTransportError:
		return "transport_error"
	case ReplyEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

const (
	MissingOpenRouterKeyMessage = "Error: OpenAI API Key is missing. Please configure OPENAI_API_KEY."
	MissingGeminiKeyMessage     = "Error: Gemini API Key is missing. Please configure GEMINI_API_KEY."
	NoResponseMessage           = "No response from AI."
)

// Reply is the outcome of one assessment call.
type Reply struct {
	Kind ReplyKind
	// Text holds the model output for ReplySuccess.
	Text string
	// Provider names the remote service in rendered errors.
	Provider string
	Status   int
	Body     string
	Detail   string
	// Message overrides the rendering of ReplyConfigError.
	Message string
}

func (r Reply) OK() bool {
	return r.Kind == ReplySuccess
}

// String renders the reply the way it is shown to users and stored.
func (r Reply) String() string {
	switch r.Kind {
	case ReplySuccess:
		return r.Text
	case ReplyConfigError:
		if r.Message != "" {
			return r.Message
		}
		return MissingOpenRouterKeyMessage
	case ReplyRemoteError:
		return fmt.Sprintf("Error from %s: %s. Details: %s", r.Provider, statusLine(r.Status), r.Body)
	case ReplyTransportError:
		return fmt.Sprintf("Exception calling %s: %s", r.Provider, r.Detail)
	default:
		return NoResponseMessage
	}
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
