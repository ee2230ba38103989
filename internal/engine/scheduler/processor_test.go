package scheduler_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func TestProcessor_Process(t *testing.T) {
	ctrl := gomock.NewController(t)
	transformer := mocks.NewMockTransformer(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	job := domain.Job{Input: "/in/a.png", Output: "/out/a.png", Rel: "a.png", Kind: domain.KindImage}
	cfg := domain.ProcessingConfig{Preset: "web"}

	tracer.EXPECT().Start(gomock.Any(), "a.png", gomock.Any()).Return(context.Background(), span)
	transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
			assert.Equal(t, job.Input, req.Input)
			assert.Equal(t, job.Output, req.Output)
			assert.Equal(t, domain.KindImage, req.Kind)
			assert.Equal(t, cfg, req.Config)
			_, err := io.WriteString(req.Log, "resized\n")
			return domain.TransformResult{BytesIn: 10, BytesOut: 4}, err
		},
	)
	span.EXPECT().Write([]byte("resized\n")).Return(8, nil)
	span.EXPECT().SetAttribute("forge.bytes_in", uint64(10))
	span.EXPECT().SetAttribute("forge.bytes_out", uint64(4))
	span.EXPECT().End()

	p := scheduler.NewProcessor(transformer, tracer)
	res, err := p.Process(t.Context(), job, cfg)
	require.NoError(t, err)
	assert.Equal(t, "/out/a.png", res.OutputPath, "an empty output path defaults to the job output")
}

func TestProcessor_ProcessFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	transformer := mocks.NewMockTransformer(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	boom := errors.New("boom")

	tracer.EXPECT().Start(gomock.Any(), "a.png", gomock.Any()).Return(context.Background(), span)
	transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(domain.TransformResult{}, boom)
	span.EXPECT().RecordError(boom)
	span.EXPECT().End()

	p := scheduler.NewProcessor(transformer, tracer)
	_, err := p.Process(t.Context(), domain.Job{Rel: "a.png"}, domain.ProcessingConfig{})
	require.ErrorIs(t, err, boom)
}

func TestProcessor_Skip(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().Start(gomock.Any(), "a.png", gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, opts ...ports.SpanOption) (context.Context, ports.Span) {
			var cfg ports.SpanConfig
			for _, opt := range opts {
				opt(&cfg)
			}
			assert.Equal(t, true, cfg.Attributes[ports.AttrCached])
			assert.Equal(t, "image", cfg.Attributes[scheduler.AttrKind])
			return ctx, span
		},
	)
	span.EXPECT().End()

	p := scheduler.NewProcessor(nil, tracer)
	p.Skip(t.Context(), domain.Job{Rel: "a.png", Kind: domain.KindImage})
}
