package handler

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Request is what the dispatcher needs from one fulfillment call.
type Request struct {
	Intent     string
	QueryText  string
	Session    string
	Parameters *structpb.Struct
}

// Agent is the reply sink for one request. Handlers add text fragments and
// the webhook sends them back in a single response.
type Agent struct {
	Request Request
	replies []string
}

func NewAgent(req Request) *Agent {
	return &Agent{Request: req}
}

func (a *Agent) Add(text string) {
	a.replies = append(a.replies, text)
}

func (a *Agent) Replies() []string {
	return append([]string(nil), a.replies...)
}

// Param returns the named parameter as trimmed text. Numbers are printed
// without an exponent, structs yield their "name" field (as @sys.person
// does) and lists their first element.
func (a *Agent) Param(key string) string {
	if a.Request.Parameters == nil {
		return ""
	}
	return valueString(a.Request.Parameters.GetFields()[key])
}

func valueString(v *structpb.Value) string {
	if v == nil {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	case *structpb.Value_StructValue:
		return valueString(k.StructValue.GetFields()["name"])
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		if len(values) == 0 {
			return ""
		}
		return valueString(values[0])
	default:
		return ""
	}
}
