package service

import (
	"context"
	"fmt"

	"surana-backend/internal/apperr"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/model"
)

type fakeKeys map[Provider]string

func (f fakeKeys) APIKey(_ context.Context, p Provider) (string, error) {
	return f[p], nil
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeGenerator struct {
	err      error
	requests []imagegen.Request
	keys     []string
}

func (f *fakeGenerator) Generate(_ context.Context, apiKey string, req imagegen.Request) (model.GeneratedImage, error) {
	f.requests = append(f.requests, req)
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return model.GeneratedImage{}, f.err
	}
	return model.GeneratedImage{
		ImageURL:       fmt.Sprintf("https://img.test/%d.webp", len(f.requests)),
		PositivePrompt: req.PositivePrompt,
		Seed:           int64(len(f.requests)),
	}, nil
}

var errUpstream = fmt.Errorf("%w: boom", apperr.ErrUpstream)
