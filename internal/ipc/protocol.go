package ipc

import "fmt"

// Commands accepted over the control socket.
const (
	CommandNext        = "next"
	CommandPrevious    = "previous"
	CommandPause       = "pause"
	CommandResume      = "resume"
	CommandTogglePause = "toggle-pause"
	CommandReload      = "reload"
	CommandStatus      = "status"
)

// Response status values.
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusReport = "status"
)

// Request is one client command. The connection carries exactly one request:
// the client writes it, half-closes, and reads the response to EOF.
type Request struct {
	Command string `json:"command"`
	// Output targets a single output for next/previous. Empty means all.
	Output string `json:"output,omitempty"`
}

// Validate checks that the command is one the daemon understands.
func (r Request) Validate() error {
	switch r.Command {
	case CommandNext, CommandPrevious, CommandPause, CommandResume,
		CommandTogglePause, CommandReload, CommandStatus:
		return nil
	case "":
		return fmt.Errorf("missing command")
	default:
		return fmt.Errorf("unknown command %q", r.Command)
	}
}

// OutputStatus is the wire form of one output's rotation state. Queue names
// the schedule driving the output so shared membership is visible.
type OutputStatus struct {
	Output           string `json:"output"`
	Queue            string `json:"queue"`
	CurrentImage     string `json:"current_image"`
	QueuePosition    int    `json:"queue_position"`
	QueueSize        int    `json:"queue_size"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Paused           bool   `json:"paused"`
}

// Response is the daemon's reply to a request.
type Response struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Paused  bool           `json:"paused,omitempty"`
	Outputs []OutputStatus `json:"outputs,omitempty"`
}

func okResponse(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

func errorResponse(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}
