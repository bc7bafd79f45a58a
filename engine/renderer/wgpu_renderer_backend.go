package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-core/common"
	"github.com/Carmen-Shannon/oxy-core/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	cfg     BackendConfig
	appName string

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	alphaMode            wgpu.CompositeAlphaMode
	presentMode          wgpu.PresentMode
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	width, height int
	pendingResize bool

	// cameraBuffers is a ring of uniform buffers, one per frame in flight, indexed by frameNumber.
	cameraBuffers []*wgpu.Buffer
	frameNumber   uint64

	// Frame state between BeginFrame and EndFrame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(cfg BackendConfig) RendererBackend {
	if cfg.FramesInFlight < 1 {
		cfg.FramesInFlight = 1
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = MSAAOff
	}

	presentMode := wgpu.PresentModeImmediate
	if cfg.PresentMode == PresentModeVSync {
		presentMode = wgpu.PresentModeFifo
	}

	return &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		cfg:         cfg,
		presentMode: presentMode,
	}
}

func (b *wgpuRendererBackendImpl) Initialize(appName string, surface PlatformSurface) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		return ErrAlreadyInitialized
	}
	if surface == nil {
		return fmt.Errorf("%w: nil surface provider", ErrInvalidSurface)
	}
	desc := surface.SurfaceDescriptor()
	if desc == nil {
		return fmt.Errorf("%w: no native surface handle", ErrInvalidSurface)
	}
	width, height := surface.Size()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSurface, width, height)
	}

	runtime.LockOSThread()
	b.appName = appName

	if err := b.initLocked(desc, width, height); err != nil {
		b.releaseLocked()
		return err
	}

	common.Logger().Info("wgpu backend initialized",
		"app", appName,
		"width", width,
		"height", height,
		"msaa", uint32(b.cfg.SampleCount),
		"framesInFlight", b.cfg.FramesInFlight,
	)
	return nil
}

// initLocked creates the instance, surface, adapter, device, swapchain, and uniform ring.
// Caller must hold the mutex and release everything on error.
func (b *wgpuRendererBackendImpl) initLocked(desc *wgpu.SurfaceDescriptor, width, height int) error {
	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return fmt.Errorf("%w: instance creation failed", ErrDeviceRejected)
	}

	b.surface = b.instance.CreateSurface(desc)
	if b.surface == nil {
		return fmt.Errorf("%w: surface creation failed", ErrInvalidSurface)
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.cfg.ForceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return fmt.Errorf("%w: request adapter: %w", ErrDeviceRejected, err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: b.appName + " device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: request device: %w", ErrDeviceRejected, err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return fmt.Errorf("%w: surface reports no formats for this adapter", ErrInvalidSurface)
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	if err := b.configureLocked(width, height); err != nil {
		return err
	}

	b.cameraBuffers = make([]*wgpu.Buffer, 0, b.cfg.FramesInFlight)
	for i := range b.cfg.FramesInFlight {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s camera uniform %d", b.appName, i),
			Size:  camera.GPUCameraUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("%w: camera uniform buffer: %w", ErrDeviceRejected, err)
		}
		b.cameraBuffers = append(b.cameraBuffers, buf)
	}
	return nil
}

// configureLocked (re)configures the swapchain and recreates the MSAA and depth targets.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) configureLocked(width, height int) error {
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.releaseTargetsLocked()

	count := uint32(b.cfg.SampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("%w: msaa texture: %w", ErrSurfaceOutOfDate, err)
		}
		b.msaaTexture = tex
		b.msaaTextureView, err = tex.CreateView(nil)
		if err != nil {
			return fmt.Errorf("%w: msaa view: %w", ErrSurfaceOutOfDate, err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("%w: depth texture: %w", ErrSurfaceOutOfDate, err)
	}
	b.depthTexture = depth
	b.depthTextureView, err = depth.CreateView(nil)
	if err != nil {
		return fmt.Errorf("%w: depth view: %w", ErrSurfaceOutOfDate, err)
	}

	// With MSAA the color View is the MSAA texture and ResolveTarget is set per frame.
	// Without it, View is set per frame to the swapchain view.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
				ClearValue: wgpu.Color{
					R: 0.1, G: 0.1, B: 0.1, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	b.width, b.height = width, height
	b.pendingResize = false
	return nil
}

func (b *wgpuRendererBackendImpl) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasLive := b.device != nil
	b.releaseLocked()
	if wasLive {
		common.Logger().Info("wgpu backend shut down", "app", b.appName)
	}
}

func (b *wgpuRendererBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	b.pendingResize = true
}

func (b *wgpuRendererBackendImpl) FrameNumber(n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frameNumber = n
}

func (b *wgpuRendererBackendImpl) BeginFrame(deltaTime float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ErrNotInitialized
	}
	if b.frameSurface != nil {
		return ErrFrameInProgress
	}
	if b.width <= 0 || b.height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrSurfaceUnavailable, b.width, b.height)
	}
	if b.pendingResize {
		if err := b.configureLocked(b.width, b.height); err != nil {
			return err
		}
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		b.pendingResize = true
		return fmt.Errorf("%w: %w", ErrSurfaceOutOfDate, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("%w: %w", ErrSurfaceOutOfDate, err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("%w: command encoder: %w", ErrSurfaceOutOfDate, err)
	}

	if b.cfg.SampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) UpdateGlobalState(state GlobalState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || len(b.cameraBuffers) == 0 {
		return
	}
	u := camera.GPUCameraUniform{
		ViewProj:       [16]float32(state.Projection.Mul4(state.View)),
		CameraPosition: [3]float32(state.ViewPosition),
	}
	buf := b.cameraBuffers[b.frameNumber%uint64(len(b.cameraBuffers))]
	b.queue.WriteBuffer(buf, 0, u.Marshal())
}

func (b *wgpuRendererBackendImpl) EndFrame(deltaTime float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}

	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.releaseFrameLocked()
		return fmt.Errorf("%w: finish encoder: %w", ErrSubmission, err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()
	b.releaseFrameLocked()
	return nil
}

// releaseFrameLocked drops the per-frame encoder, pass, and surface texture.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseFrameLocked() {
	if b.framePass != nil {
		b.framePass.Release()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// releaseTargetsLocked drops the size-dependent MSAA and depth targets.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseTargetsLocked() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	b.renderPassDescriptor = nil
}

// releaseLocked releases every API object in reverse creation order. Every step is nil-guarded
// so it is safe on a partially initialized or already released backend.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseLocked() {
	b.releaseFrameLocked()
	for _, buf := range b.cameraBuffers {
		buf.Release()
	}
	b.cameraBuffers = nil
	b.releaseTargetsLocked()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
