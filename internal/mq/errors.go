package mq

import "errors"

// ErrRejected помечает сообщение как безнадёжное: обработчик
// отказывается от него навсегда, и consumer отправляет его в DLQ
// вместо возврата в очередь.
var ErrRejected = errors.New("message rejected")

func isRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
