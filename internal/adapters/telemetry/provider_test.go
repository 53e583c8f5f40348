package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/telemetry"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_SpanLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("press-test").WithRenderer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	var parentID, childID string
	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "build", gomock.Any()).
		Do(func(spanID, _, _ string, _ any) { parentID = spanID })
	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "style", gomock.Any()).
		Do(func(spanID, parent, _ string, _ any) {
			childID = spanID
			assert.Equal(t, parentID, parent)
		})
	renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("compiled\n")).
		Do(func(spanID string, _ []byte) { assert.Equal(t, childID, spanID) })
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(spanID string, _ any, err error) {
			assert.Equal(t, childID, spanID)
			require.Error(t, err)
			assert.Equal(t, "sass failed", err.Error())
		})
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil).
		Do(func(spanID string, _ any, _ error) { assert.Equal(t, parentID, spanID) })

	ctx, root := tracer.Start(context.Background(), "build")
	_, child := tracer.Start(ctx, "style")

	_, err := child.Write([]byte("compiled\n"))
	require.NoError(t, err)
	child.RecordError(errors.New("sass failed"))
	child.End()
	root.End()
}

func TestOTelTracer_PartialLineDeliveredOnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("press-test").WithRenderer(renderer)

	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("no newline"))
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil)

	_, span := tracer.Start(context.Background(), "html")
	_, _ = span.Write([]byte("no newline"))
	span.End()
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tracer := telemetry.NewOTelTracer("press-test").WithRenderer(renderer)

	tasks := []string{"js", "jsdel", "jsvendor"}
	children := map[string][]string{"js": {"jsdel", "jsvendor"}}
	renderer.EXPECT().OnPlanEmit(tasks, children, []string{"js"})

	tracer.EmitPlan(context.Background(), tasks, children, []string{"js"})
}

func TestOTelTracer_NoRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer("press-test")

	require.NotPanics(t, func() {
		ctx, span := tracer.Start(context.Background(), "clean")
		span.SetAttribute("kind", "leaf")
		span.SetAttribute("inputs", 3)
		span.SetAttribute("patterns", []string{"build"})
		span.SetAttribute("other", struct{}{})
		_, _ = span.Write([]byte("x\n"))
		span.End()
		tracer.EmitPlan(ctx, []string{"clean"}, nil, []string{"clean"})
	})
}
