package client

import (
	"context"
	"encoding/json"
	"net/http"
)

type CommandService struct {
	Options []RequestOption
}

func NewCommandService(opts ...RequestOption) CommandService {
	return CommandService{
		Options: opts,
	}
}

type Command struct {
	Command string `json:"command"`
	Mode    string `json:"mode"`
}

func (r *CommandService) List(ctx context.Context, opts ...RequestOption) ([]Command, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/commands", nil)

	resp, err := c.do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var result []Command

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}
