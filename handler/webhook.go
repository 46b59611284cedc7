package handler

import (
	"RegistrationBot/metrics"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/encoding/protojson"
)

const (
	LivenessReply     = "Dialogflow webhook is running."
	maxWebhookBody    = 1 << 20
	internalErrorText = "Internal server error."
)

// Webhook is the fulfillment endpoint. It writes exactly one response per
// request: the agent's replies, or a 500 if dispatch failed and nothing has
// been written yet.
type Webhook struct {
	Dispatcher *Dispatcher
}

func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tw := &trackingWriter{ResponseWriter: w}

	body, err := io.ReadAll(http.MaxBytesReader(tw, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(tw, "read error", http.StatusBadRequest)
		return
	}
	var wreq dialogflowpb.WebhookRequest
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(body, &wreq); err != nil {
		log.Warn().Err(err).Msg("invalid webhook body")
		http.Error(tw, "invalid body", http.StatusBadRequest)
		return
	}

	req := requestFromProto(&wreq)
	log.Debug().Str("intent", req.Intent).Str("session", req.Session).Msg("webhook request")

	agent, err := wh.Dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		wh.fail(tw)
		return
	}

	data, err := protojson.Marshal(responseFromReplies(agent.Replies()))
	if err != nil {
		log.Error().Err(err).Msg("error encoding webhook response")
		wh.fail(tw)
		return
	}
	tw.Header().Set("Content-Type", "application/json")
	_, _ = tw.Write(data)
}

func (wh *Webhook) fail(tw *trackingWriter) {
	if tw.written {
		return
	}
	http.Error(tw, internalErrorText, http.StatusInternalServerError)
}

func requestFromProto(wreq *dialogflowpb.WebhookRequest) Request {
	qr := wreq.GetQueryResult()
	return Request{
		Intent:     qr.GetIntent().GetDisplayName(),
		QueryText:  qr.GetQueryText(),
		Session:    wreq.GetSession(),
		Parameters: qr.GetParameters(),
	}
}

func responseFromReplies(replies []string) *dialogflowpb.WebhookResponse {
	resp := &dialogflowpb.WebhookResponse{
		FulfillmentText: strings.Join(replies, "\n"),
	}
	for _, text := range replies {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, &dialogflowpb.Intent_Message{
			Message: &dialogflowpb.Intent_Message_Text_{
				Text: &dialogflowpb.Intent_Message_Text{Text: []string{text}},
			},
		})
	}
	return resp
}

// trackingWriter remembers whether anything reached the client.
type trackingWriter struct {
	http.ResponseWriter
	written bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.written = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(p []byte) (int, error) {
	tw.written = true
	return tw.ResponseWriter.Write(p)
}

func liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, LivenessReply)
}

// NewRouter serves liveness, the webhook and metrics behind permissive CORS.
func NewRouter(wh *Webhook) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", liveness)
	mux.Handle("POST /webhook", wh)
	mux.Handle("GET /metrics", metrics.Handler())
	return cors.Default().Handler(metrics.Middleware(mux))
}
