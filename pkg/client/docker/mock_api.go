package docker

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a testify mock of API.
type MockAPI struct {
	mock.Mock
}

// NewMockAPI creates a MockAPI whose expectations are asserted when the test ends.
func NewMockAPI(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockAPI {
	m := &MockAPI{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockAPIExpecter registers expectations with typed arguments.
type MockAPIExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter of the mock.
func (m *MockAPI) EXPECT() *MockAPIExpecter {
	return &MockAPIExpecter{mock: &m.Mock}
}

// ImageList mocks listing images.
func (m *MockAPI) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	args := m.Called(ctx, options)

	images, _ := args.Get(0).([]image.Summary)

	return images, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ImageList expects an ImageList call.
func (e *MockAPIExpecter) ImageList(ctx, options any) *mock.Call {
	return e.mock.On("ImageList", ctx, options)
}

// ImagePull mocks pulling an image.
func (m *MockAPI) ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, refStr, options)

	reader, _ := args.Get(0).(io.ReadCloser)

	return reader, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ImagePull expects an ImagePull call.
func (e *MockAPIExpecter) ImagePull(ctx, refStr, options any) *mock.Call {
	return e.mock.On("ImagePull", ctx, refStr, options)
}

// ImageBuild mocks building an image.
func (m *MockAPI) ImageBuild(
	ctx context.Context,
	buildContext io.Reader,
	options types.ImageBuildOptions,
) (types.ImageBuildResponse, error) {
	args := m.Called(ctx, buildContext, options)

	resp, _ := args.Get(0).(types.ImageBuildResponse)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ImageBuild expects an ImageBuild call.
func (e *MockAPIExpecter) ImageBuild(ctx, buildContext, options any) *mock.Call {
	return e.mock.On("ImageBuild", ctx, buildContext, options)
}

// ImageSave mocks saving images. Options are not matched.
func (m *MockAPI) ImageSave(
	ctx context.Context,
	imageIDs []string,
	_ ...client.ImageSaveOption,
) (io.ReadCloser, error) {
	args := m.Called(ctx, imageIDs)

	reader, _ := args.Get(0).(io.ReadCloser)

	return reader, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ImageSave expects an ImageSave call.
func (e *MockAPIExpecter) ImageSave(ctx, imageIDs any) *mock.Call {
	return e.mock.On("ImageSave", ctx, imageIDs)
}

// ImageLoad mocks loading an image archive. Options are not matched.
func (m *MockAPI) ImageLoad(
	ctx context.Context,
	input io.Reader,
	_ ...client.ImageLoadOption,
) (image.LoadResponse, error) {
	args := m.Called(ctx, input)

	resp, _ := args.Get(0).(image.LoadResponse)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ImageLoad expects an ImageLoad call.
func (e *MockAPIExpecter) ImageLoad(ctx, input any) *mock.Call {
	return e.mock.On("ImageLoad", ctx, input)
}

// ContainerList mocks listing containers.
func (m *MockAPI) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	args := m.Called(ctx, options)

	containers, _ := args.Get(0).([]container.Summary)

	return containers, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerList expects a ContainerList call.
func (e *MockAPIExpecter) ContainerList(ctx, options any) *mock.Call {
	return e.mock.On("ContainerList", ctx, options)
}

// ContainerInspect mocks inspecting a container.
func (m *MockAPI) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	args := m.Called(ctx, containerID)

	resp, _ := args.Get(0).(container.InspectResponse)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerInspect expects a ContainerInspect call.
func (e *MockAPIExpecter) ContainerInspect(ctx, containerID any) *mock.Call {
	return e.mock.On("ContainerInspect", ctx, containerID)
}

// ContainerExecCreate mocks creating an exec instance.
func (m *MockAPI) ContainerExecCreate(
	ctx context.Context,
	containerID string,
	options container.ExecOptions,
) (container.ExecCreateResponse, error) {
	args := m.Called(ctx, containerID, options)

	resp, _ := args.Get(0).(container.ExecCreateResponse)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerExecCreate expects a ContainerExecCreate call.
func (e *MockAPIExpecter) ContainerExecCreate(ctx, containerID, options any) *mock.Call {
	return e.mock.On("ContainerExecCreate", ctx, containerID, options)
}

// ContainerExecAttach mocks attaching to an exec instance.
func (m *MockAPI) ContainerExecAttach(
	ctx context.Context,
	execID string,
	config container.ExecStartOptions,
) (types.HijackedResponse, error) {
	args := m.Called(ctx, execID, config)

	resp, _ := args.Get(0).(types.HijackedResponse)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerExecAttach expects a ContainerExecAttach call.
func (e *MockAPIExpecter) ContainerExecAttach(ctx, execID, config any) *mock.Call {
	return e.mock.On("ContainerExecAttach", ctx, execID, config)
}

// ContainerExecInspect mocks inspecting an exec instance.
func (m *MockAPI) ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error) {
	args := m.Called(ctx, execID)

	resp, _ := args.Get(0).(container.ExecInspect)

	return resp, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerExecInspect expects a ContainerExecInspect call.
func (e *MockAPIExpecter) ContainerExecInspect(ctx, execID any) *mock.Call {
	return e.mock.On("ContainerExecInspect", ctx, execID)
}

// ContainerExecResize mocks resizing an exec TTY.
func (m *MockAPI) ContainerExecResize(ctx context.Context, execID string, options container.ResizeOptions) error {
	args := m.Called(ctx, execID, options)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ContainerExecResize expects a ContainerExecResize call.
func (e *MockAPIExpecter) ContainerExecResize(ctx, execID, options any) *mock.Call {
	return e.mock.On("ContainerExecResize", ctx, execID, options)
}

// Close mocks closing the client.
func (m *MockAPI) Close() error {
	args := m.Called()

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

var _ API = (*MockAPI)(nil)
