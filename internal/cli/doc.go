// Package cli реализует инструмент командной строки xws.
//
// # Обзор
//
// CLI выполняет сервисы локально, публикует запросы для worker'ов
// и показывает журнал выполнений.
//
// # Ключевые компоненты
//
// ## Deps
//
// Зависимости команд: реестр, фабрика executor'ов, журнал runs
// и publisher. Подключения к Postgres и RabbitMQ открываются лениво,
// только командами runs и run --remote.
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Warn/Error) — в stderr.
// Это позволяет использовать pipe: xws runs list --json | jq .
//
// ## Commands
//
//   - run: локальное выполнение (-i, -o, -w, --dry-run, --validate) или --remote
//   - workers: зарегистрированные сервисы и их поля
//   - runs: list, show
//   - jobs: проверка файла jobs планировщика
//
// Если выполнение завершилось с ошибками входных данных, run возвращает
// ошибку, совместимую с xws.ErrInvalidInput.
package cli
