package handler

import "context"

const GreetingReply = "Hello! How can I help you today?"

func Greet(ctx context.Context, agent *Agent) error {
	agent.Add(GreetingReply)
	return nil
}
