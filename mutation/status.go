package mutation

import "strings"

// StatusKind discriminates a mutation's outcome, replacing the wire
// format's stringly-typed status with the MutationStatus sum type spec
// §9 calls for: "Success(kind) | Noop(reason) | Error(reason); the wire
// format is the only place strings appear."
type StatusKind int

const (
	StatusSuccess StatusKind = iota
	StatusNoop
	StatusFailed
)

// Status is the parsed form of the envelope's "status" string (spec
// §4.6/§6.2). Reason holds the success kind (e.g. "new", "updated")
// for StatusSuccess, or the text after the colon for StatusNoop/
// StatusFailed.
type Status struct {
	Kind   StatusKind
	Reason string
}

// successStatusWords are the literal recognised status strings that
// mean success outright (spec §6.2's status enum, excluding the
// noop:/failed: prefixed forms).
var successStatusWords = map[string]bool{
	"success": true, "new": true, "updated": true,
	"deleted": true, "completed": true, "ok": true,
}

// isRecognisedStatus reports whether raw is one of spec §6.2's status
// values; anything else means the envelope is simple-format (spec
// §4.6: "no recognised status string ... is simple format").
func isRecognisedStatus(raw string) bool {
	if successStatusWords[raw] {
		return true
	}
	return strings.HasPrefix(raw, "noop:") || strings.HasPrefix(raw, "failed:")
}

// parseStatus splits raw on the first colon (spec §4.6): a "noop"/
// "failed" prefix selects that variant with the remainder as Reason;
// any other prefix (or no colon) is Success with the entire raw string
// as Reason.
func parseStatus(raw string) Status {
	prefix, rest, found := strings.Cut(raw, ":")
	if found && prefix == "noop" {
		return Status{Kind: StatusNoop, Reason: rest}
	}
	if found && prefix == "failed" {
		return Status{Kind: StatusFailed, Reason: rest}
	}
	return Status{Kind: StatusSuccess, Reason: raw}
}

// wire renders Status back to its §6.2 wire string, used when error
// shaping needs to echo the status verbatim in the payload.
func (s Status) wire() string {
	switch s.Kind {
	case StatusNoop:
		return "noop:" + s.Reason
	case StatusFailed:
		return "failed:" + s.Reason
	default:
		return s.Reason
	}
}

// httpCode implements spec §4.6's status -> HTTP-code table.
func (s Status) httpCode() int {
	switch s.Kind {
	case StatusSuccess:
		return 200
	case StatusNoop:
		return 422
	case StatusFailed:
		switch s.Reason {
		case "not_found":
			return 404
		case "unauthorized":
			return 401
		case "forbidden":
			return 403
		case "conflict", "duplicate":
			return 409
		case "validation", "invalid":
			return 422
		default:
			return 500
		}
	default:
		return 500
	}
}
