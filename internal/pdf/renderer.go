package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdstudio/internal/fileutil"
)

// DefaultTimeout bounds page loading when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// converter turns a complete HTML document into PDF bytes.
type converter interface {
	ToPDF(ctx context.Context, htmlContent string, page PageSettings) ([]byte, error)
	Close() error
}

// fileRenderer renders a local HTML file, so tests can skip the browser.
type fileRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, page PageSettings) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ converter    = (*rodConverter)(nil)
	_ fileRenderer = (*rodRenderer)(nil)
)

// rodRenderer implements fileRenderer with go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	timeout  time.Duration
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &rodRenderer{timeout: timeout}
}

// NoSandbox reports whether Chrome must run without its sandbox, which
// containers and CI runners usually require.
func NoSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true"
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if NoSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down and kills any Chrome helpers left behind.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launcher.PID(); pid > 0 {
		killBrowserTree(pid)
	}
	r.launcher.Kill()
	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile opens filePath in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, page PageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	p, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = p.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := p.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(printOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// printOptions maps page settings to Chrome's print parameters.
func printOptions(page PageSettings) *proto.PagePrintToPDF {
	width, height, margin := page.dimensions()
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes the document to a temp file and prints it, so that
// file:// image paths in the document resolve.
type rodConverter struct {
	renderer fileRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF implements converter.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, page PageSettings) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, path, page)
}

// Close implements converter.
func (c *rodConverter) Close() error {
	return c.renderer.Close()
}
