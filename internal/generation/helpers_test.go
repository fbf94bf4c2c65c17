package generation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"resume-builder/internal/ai"
)

type scriptedProvider struct {
	name string
	// failFor lists profile titles this provider fails on; "*" fails everything.
	failFor []string
	delay   func(prompt ai.Prompt) time.Duration
	calls   atomic.Int32
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	p.calls.Add(1)
	if p.delay != nil {
		time.Sleep(p.delay(prompt))
	}
	for _, title := range p.failFor {
		if title == "*" || strings.Contains(prompt.User, "role: "+title+"\n") {
			return "", errors.New(p.name + " unavailable")
		}
	}
	return "```json\n" + `{"summary":"Tailored by ` + p.name + `","experience":[{"position":"SWE","company":"Acme","duration":"2y","description":"rewritten"}],"skills":["Go","SQL"]}` + "\n```", nil
}

func sampleBase() Base {
	return Base{
		PersonalInfo: PersonalInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "555", Location: "Berlin"},
		SummaryBase:  "Engineer",
		Experience:   nil,
		SkillsBase:   "Go",
	}
}
