package executer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunScript executes script in host or chroot mode, streaming combined
// stdout+stderr to both the console and logWriter, and returns the
// subprocess's exit code. In chroot mode it bind-mounts the scripts
// directory plus /dev, /proc, /sys into chrootDir before the run and
// best-effort unmounts them in reverse order afterward, regardless of how
// the run ends.
func RunScript(ctx context.Context, mode, scriptPath, scriptsDir, chrootDir, destdir string, logWriter io.Writer) (int, error) {
	if mode == ModeChroot {
		return runChroot(ctx, scriptPath, scriptsDir, chrootDir, destdir, logWriter)
	}
	return runHost(ctx, scriptPath, destdir, logWriter)
}

func runHost(ctx context.Context, scriptPath, destdir string, logWriter io.Writer) (int, error) {
	args := []string{scriptPath}
	if destdir != "" {
		args = append(args, destdir)
	}
	cmd := exec.CommandContext(ctx, "/bin/bash", args...)
	return streamRun(cmd, logWriter)
}

func runChroot(ctx context.Context, scriptPath, scriptsDir, chrootDir, destdir string, logWriter io.Writer) (int, error) {
	mounts := []struct{ src, dst string }{
		{scriptsDir, filepath.Join(chrootDir, "scripts")},
		{"/dev", filepath.Join(chrootDir, "dev")},
		{"/proc", filepath.Join(chrootDir, "proc")},
		{"/sys", filepath.Join(chrootDir, "sys")},
	}

	var mounted []string
	defer func() {
		for i := len(mounted) - 1; i >= 0; i-- {
			exec.Command("umount", "-lf", mounted[i]).Run()
		}
	}()

	for _, m := range mounts {
		if err := os.MkdirAll(m.dst, 0o755); err != nil {
			return -1, fmt.Errorf("creating bind-mount target %s: %w", m.dst, err)
		}
		if err := exec.Command("mount", "--bind", m.src, m.dst).Run(); err != nil {
			return -1, fmt.Errorf("bind-mounting %s -> %s: %w", m.src, m.dst, err)
		}
		mounted = append(mounted, m.dst)
	}

	args := []string{chrootDir, "/bin/bash", "/scripts/" + filepath.Base(scriptPath)}
	if destdir != "" {
		rel, err := filepath.Rel(chrootDir, destdir)
		if err != nil {
			return -1, fmt.Errorf("computing chroot-internal destdir: %w", err)
		}
		args = append(args, "/"+strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	}
	cmd := exec.CommandContext(ctx, "chroot", args...)
	return streamRun(cmd, logWriter)
}

func streamRun(cmd *exec.Cmd, logWriter io.Writer) (int, error) {
	cmd.Stdout = io.MultiWriter(os.Stdout, logWriter)
	cmd.Stderr = io.MultiWriter(os.Stdout, logWriter)

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
