package worker

import "errors"

// Ошибки воркера.
var (
	// ErrMalformedInvocation — сообщение не содержит корректного запроса.
	ErrMalformedInvocation = errors.New("malformed invocation")

	// ErrDuplicateInvocation — запрос с таким ID уже обработан.
	ErrDuplicateInvocation = errors.New("duplicate invocation")

	// ErrNoConnection — воркер запущен без подключения к RabbitMQ.
	ErrNoConnection = errors.New("no mq connection")

	// ErrNoExecutorFactory — не задана фабрика executor'ов.
	ErrNoExecutorFactory = errors.New("no executor factory")

	// ErrWorkerStopped — воркер остановлен.
	ErrWorkerStopped = errors.New("worker stopped")
)
