// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений, Settle (ack или DLQ), разбор запросов
//
// Типы сообщений:
//   - invocation.requested — запрос на выполнение сервиса
//   - invocation.completed — результат выполнения
//
// Exchanges:
//   - xws.invocations — запросы и результаты
//   - xws.dlq         — dead letter queue
package mq
