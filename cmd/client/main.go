package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/client"

	"github.com/google/uuid"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")
	modeFlag := flag.String("mode", "", "render mode (raw, formula, themed) instead of chat commands")

	flag.Parse()

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	client := client.New(*urlFlag, options...)

	if *modeFlag != "" {
		render(ctx, client, *modeFlag)
		return
	}

	chat(ctx, client)
}

func chat(ctx context.Context, c *client.Client) {
	reader := bufio.NewReader(os.Stdin)
	output := os.Stdout

	session := uuid.NewString()

	if commands, err := c.Commands.List(ctx); err == nil {
		for _, cmd := range commands {
			output.WriteString(fmt.Sprintf("%-8s %s\n", cmd.Command, cmd.Mode))
		}

		output.WriteString("\n")
	}

LOOP:
	for {
		output.WriteString(">>> ")
		input, err := reader.ReadString('\n')

		if err == io.EOF {
			return
		}

		if err != nil {
			panic(err)
		}

		input = strings.TrimSpace(input)

		if input == "" {
			continue LOOP
		}

		message, err := c.Messages.New(ctx, client.MessageRequest{
			Session: session,
			Text:    input,
		})

		if err != nil {
			output.WriteString(err.Error() + "\n")
			continue LOOP
		}

		if message.Image == nil {
			output.WriteString(message.Text + "\n\n")
			continue LOOP
		}

		data, err := message.Image.Bytes()

		if err != nil {
			output.WriteString(err.Error() + "\n")
			continue LOOP
		}

		save(data, message.Image.ContentType)

		output.WriteString("\n")
	}
}

func render(ctx context.Context, c *client.Client, mode string) {
	reader := bufio.NewReader(os.Stdin)
	output := os.Stdout

LOOP:
	for {
		output.WriteString(">>> ")
		input, err := reader.ReadString('\n')

		if err == io.EOF {
			return
		}

		if err != nil {
			panic(err)
		}

		input = strings.TrimSpace(input)

		rendering, err := c.Renderings.New(ctx, client.RenderingRequest{
			Mode:  mode,
			Input: input,
		})

		if err != nil {
			output.WriteString(err.Error() + "\n")
			continue LOOP
		}

		save(rendering.Content, rendering.ContentType)

		output.WriteString("\n")
	}
}

func save(data []byte, contentType string) {
	name := uuid.New().String()

	if ext, _ := mime.ExtensionsByType(contentType); len(ext) > 0 {
		name += ext[0]
	} else {
		name += ".png"
	}

	os.WriteFile(name, data, 0600)
	fmt.Println("Saved: " + name)
}
