package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

type MessageService struct {
	Options []RequestOption
}

func NewMessageService(opts ...RequestOption) MessageService {
	return MessageService{
		Options: opts,
	}
}

type MessageRequest struct {
	Session string `json:"session,omitempty"`
	Text    string `json:"text"`
}

type Image struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`

	Pages int `json:"pages,omitempty"`
}

// Bytes decodes the base64 image data.
func (i *Image) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Data)
}

type Message struct {
	Type string `json:"type"`

	Text  string `json:"text,omitempty"`
	Image *Image `json:"image,omitempty"`
}

func (r *MessageService) New(ctx context.Context, input MessageRequest, opts ...RequestOption) (*Message, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, err := json.Marshal(input)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var result Message

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
