package disc

import (
	"context"
	"os/exec"
	"strings"

	"cdrip/internal/services"
)

// Ejector opens the drive tray so the next disc can be loaded.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

type commandEjector struct {
	binary string
}

// NewEjector creates an ejector that shells out to the configured eject
// binary. An empty binary falls back to "eject" from PATH.
func NewEjector(binary string) Ejector {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "eject"
	}
	return commandEjector{binary: binary}
}

func (e commandEjector) Eject(ctx context.Context, device string) error {
	var args []string
	if device != "" {
		args = append(args, device)
	}
	out, err := exec.CommandContext(ctx, e.binary, args...).CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, e.binary, "eject "+device,
			strings.TrimSpace(string(out)), err)
	}
	return nil
}
