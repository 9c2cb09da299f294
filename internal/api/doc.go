// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (реестр, журнал, publisher, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (recovery, logging, метрики)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - worker_handler.go     — обработчики для /workers
//   - invocation_handler.go — обработчики для /invocations
//   - run_handler.go        — обработчики для /runs
//
// API публикует запросы на выполнение для worker'ов и отдаёт журнал runs.
// Сервисы в API не выполняются.
package api
