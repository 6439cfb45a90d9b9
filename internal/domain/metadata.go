package domain

// MetadataFileName — имя документа метаданных в выходном каталоге.
// Загружается вместе со stems по тому же destination-префиксу.
const MetadataFileName = "_metadata.json"

// Metadata — документ с характеристиками обработки.
//
// Создаётся один раз, только на успешном пути, до загрузки результатов.
type Metadata struct {
	// DurationS — сколько секунд заняла обработка задачи.
	DurationS float64 `json:"duration_s"`

	// RefSamples — число сэмплов (frames) эталонной волны.
	// Все stems выравниваются ровно под это значение.
	RefSamples int `json:"ref_samples"`

	// RefSampleRate — частота дискретизации эталонной волны, Hz.
	RefSampleRate int `json:"ref_sample_rate"`

	// RefDurationS — длительность эталонной волны в секундах.
	RefDurationS float64 `json:"ref_duration_s"`

	// AlignedFormat — формат, в который перекодированы stems.
	AlignedFormat string `json:"aligned_format"`

	// AlignmentMethod — способ выравнивания длины.
	AlignmentMethod string `json:"alignment_method"`
}
