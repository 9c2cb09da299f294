// Package repo — хранение журнала выполнений в PostgreSQL (pgx).
//
//   - db.go       — пул соединений (DB_URL)
//   - schema.go   — создание таблиц
//   - run_repo.go — RunRepo: Create, Update, GetByID, GetByInvocationID, List
package repo
