package cli

import (
	"context"
	"runtime"

	"github.com/devbush/vidtrans/pkg/executor"
)

// openerCommand returns the command that opens a file with the desktop's
// default application
func openerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// openFile shows path in the default viewer, typically the web browser for
// the HTML report
func openFile(ctx context.Context, exec executor.Executor, path string) error {
	name, args := openerCommand(runtime.GOOS, path)
	_, err := exec.Execute(ctx, name, args...)
	return err
}
