// Package scheduler реализует логику планировщика jobs.
//
// Scheduler периодически проверяет jobs с истекшим next_due_at
// и публикует запросы на выполнение в RabbitMQ.
//
// Структура:
//   - jobs.go      — разбор и проверка YAML-файла jobs
//   - scheduler.go — основная логика Scheduler (Tick, processJob)
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//   - template.go  — шаблоны директорий (date, env, default, ...)
//
// Директории job могут быть шаблонами, они рендерятся на каждый запуск:
//
//	output_dir: /data/out/{{ .Job }}/{{ date "2006-01-02" .Due }}
//
// Использование:
//
//	jobs, err := scheduler.LoadJobs("jobs.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sched, err := scheduler.New(scheduler.Config{
//	    Jobs:      jobs,
//	    Publisher: publisher,
//	    Logger:    logger,
//	})
//
//	// Вызывается каждый тик (обычно раз в секунду)
//	sched.Tick(ctx, time.Now())
//
// Leader Election:
//
// Scheduler не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Tick() вызывается только лидером.
package scheduler
