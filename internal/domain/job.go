package domain

// Request — запрос на обработку одного аудиофайла.
//
// Адреса имеют формат scheme://bucket/key (см. internal/blob).
// Валидация адресов откладывается до выполнения pipeline:
// приём задачи не делает сетевых вызовов и не проверяет blob store.
type Request struct {
	// SourceAddress — адрес исходного файла (например, gs://bucket/in.mp3).
	SourceAddress string `json:"source_address"`

	// DestinationAddress — префикс, под который загружаются результаты
	// (например, gs://bucket/out/).
	DestinationAddress string `json:"destination_address"`
}

// Ack — пустое подтверждение приёма задачи.
//
// Возвращается сразу после того, как Manager принял запрос;
// сама обработка идёт в фоне. Ack не несёт бизнес-данных —
// за прогрессом наблюдают через snapshot состояния.
type Ack struct{}
