package booking

import "github.com/m04kA/CRH-SchedulingService/pkg/txmanager"

// DBExecutor общий интерфейс для *sql.DB и *sql.Tx
// Репозиторий присоединяется к активной транзакции через контекст
type DBExecutor = txmanager.DBExecutor
