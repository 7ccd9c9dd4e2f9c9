package transport_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/devantler-tech/box/pkg/svc/transport"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errExecCreateFailed = errors.New("exec create failed")

func TestContainerRunSuccessfulCommand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := docker.NewMockAPI(t)
	resp, _ := docker.StreamResponse("hello\n", "")

	client.EXPECT().
		ContainerExecCreate(ctx, "box-seed-1", mock.MatchedBy(func(opts container.ExecOptions) bool {
			return opts.AttachStdout && opts.AttachStderr && !opts.AttachStdin &&
				len(opts.Cmd) == 2 && opts.Cmd[0] == "echo" && opts.Cmd[1] == "hello"
		})).
		Return(container.ExecCreateResponse{ID: "exec-1"}, nil)
	client.EXPECT().
		ContainerExecAttach(ctx, "exec-1", container.ExecStartOptions{}).
		Return(resp, nil)
	client.EXPECT().
		ContainerExecInspect(ctx, "exec-1").
		Return(container.ExecInspect{ExitCode: 0}, nil)

	seed := transport.NewContainer(client, "box-seed-1", quietLogger(), nil, nil)

	result, err := seed.Run(ctx, transport.Cmd("echo", "hello"))

	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, "box-seed-1", seed.Name())
}

func TestContainerRunWritesStdin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := docker.NewMockAPI(t)
	resp, conn := docker.StreamResponse("ok\n", "")

	client.EXPECT().
		ContainerExecCreate(ctx, "box-seed-1", mock.MatchedBy(func(opts container.ExecOptions) bool {
			return opts.AttachStdin && len(opts.Env) == 1 && opts.Env[0] == "A=B"
		})).
		Return(container.ExecCreateResponse{ID: "exec-2"}, nil)
	client.EXPECT().
		ContainerExecAttach(ctx, "exec-2", container.ExecStartOptions{}).
		Return(resp, nil)
	client.EXPECT().
		ContainerExecInspect(ctx, "exec-2").
		Return(container.ExecInspect{ExitCode: 0}, nil)

	seed := transport.NewContainer(client, "box-seed-1", quietLogger(), nil, nil)

	cmd := transport.Cmd("box", "cluster", "bootstrap", "--request", "-").
		WithStdin(strings.NewReader(`{"osds":3}`)).
		WithEnv("A=B")

	_, err := seed.Run(ctx, cmd)

	require.NoError(t, err)
	assert.JSONEq(t, `{"osds":3}`, conn.Written.String())
	assert.True(t, conn.WriteClosed)
}

func TestContainerRunNonZeroExitCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := docker.NewMockAPI(t)
	resp, _ := docker.StreamResponse("", "vgchange failed\n")

	client.EXPECT().
		ContainerExecCreate(ctx, "box-seed-1", mock.Anything).
		Return(container.ExecCreateResponse{ID: "exec-3"}, nil)
	client.EXPECT().
		ContainerExecAttach(ctx, "exec-3", container.ExecStartOptions{}).
		Return(resp, nil)
	client.EXPECT().
		ContainerExecInspect(ctx, "exec-3").
		Return(container.ExecInspect{ExitCode: 5}, nil)

	seed := transport.NewContainer(client, "box-seed-1", quietLogger(), nil, nil)

	result, err := seed.Run(ctx, transport.Cmd("vgchange", "--refresh"))

	require.Error(t, err)
	assert.Equal(t, 5, transport.ExitCode(err))
	assert.Equal(t, "vgchange failed\n", result.Stderr)
	assert.Contains(t, err.Error(), "vgchange failed")
}

func TestContainerRunCreateFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := docker.NewMockAPI(t)

	client.EXPECT().
		ContainerExecCreate(ctx, "box-seed-1", mock.Anything).
		Return(container.ExecCreateResponse{}, errExecCreateFailed)

	seed := transport.NewContainer(client, "box-seed-1", quietLogger(), nil, nil)

	_, err := seed.Run(ctx, transport.Cmd("true"))

	require.ErrorIs(t, err, errExecCreateFailed)
	assert.Equal(t, -1, transport.ExitCode(err))
}

func TestContainerRunAttachFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := docker.NewMockAPI(t)

	client.EXPECT().
		ContainerExecCreate(ctx, "box-seed-1", mock.Anything).
		Return(container.ExecCreateResponse{ID: "exec-4"}, nil)
	client.EXPECT().
		ContainerExecAttach(ctx, "exec-4", container.ExecStartOptions{}).
		Return(types.HijackedResponse{}, errExecCreateFailed)

	seed := transport.NewContainer(client, "box-seed-1", quietLogger(), nil, nil)

	_, err := seed.Run(ctx, transport.Cmd("true"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to attach to exec")
}
