// Package worker выполняет запросы на запуск сервисов.
//
// # Обзор
//
// Worker — stateless компонент системы xws, который получает запросы
// (domain.Invocation) из очереди RabbitMQ и выполняет их. Worker отвечает за:
//
//   - Получение запросов из очереди invocations.requested
//   - Запись run в журнал Postgres (если журнал настроен)
//   - Выполнение сервиса новым xws.Executor
//   - Отправку результата в очередь invocations.completed
//
// Workers масштабируются горизонтально: несколько экземпляров
// потребляют из одной очереди.
//
// # Ключевые компоненты
//
// ## Worker
//
// Основная структура, управляющая жизненным циклом.
// Создаётся через New(cfg Config) и запускается методом Start(ctx).
//
//	w := worker.New(worker.Config{
//	    Runs:        runRepo,
//	    Publisher:   publisher,
//	    Conn:        mqConn,
//	    NewExecutor: worker.NewExecutorFactory(services.NewExecutor, nil, logger, metrics),
//	    Logger:      logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// ## ExecutorFactory
//
// Executor не потокобезопасен, поэтому каждый запрос выполняется
// новым executor'ом из фабрики.
//
// # Обработка запроса
//
//  1. Разбор сообщения, проверка обязательных полей
//  2. Создание run в статусе RUNNING (уникален по invocation_id)
//  3. Выполнение сервиса
//  4. SUCCEEDED, INVALID_INPUT или FAILED по результату
//  5. Обновление run, publish InvocationCompleted
//
// # Ошибки
//
// Повторов нет. Некорректное сообщение или сбой журнала приводят к Nack,
// и сообщение уходит в DLQ. Повторная доставка уже обработанного запроса
// подтверждается без выполнения. Фатальная ошибка сервиса записывается
// в run со статусом FAILED, сообщение подтверждается.
package worker
