// Package proc — шлюз запуска внешних программ.
//
// Runner выполняет программу и возвращает exit code вместе с
// захваченными stdout/stderr. Ненулевой exit code — не ошибка
// уровня шлюза: классификация сбоя остаётся за вызывающей
// стадией pipeline, у каждой — свой вид ошибки.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result — результат выполнения программы.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner абстрагирует запуск внешних программ (ffmpeg, separation tool).
// Реализация в тестах подменяется фейком, пишущим нужные файлы.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (Result, error)
}

// ExecRunner — реализация Runner через os/exec.
type ExecRunner struct{}

// Run запускает программу и дожидается завершения.
//
// Ошибка возвращается только если процесс не удалось запустить
// (программа не найдена, контекст отменён). Завершение с ненулевым
// кодом — нормальный Result.
func (ExecRunner) Run(ctx context.Context, program string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", program, err)
	}

	return res, nil
}
