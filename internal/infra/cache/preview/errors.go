package preview

import "errors"

var (
	// ErrCache возвращается при ошибках Redis
	ErrCache = errors.New("preview.cache: redis error")

	// ErrDecode возвращается, если закэшированное значение не удалось разобрать
	ErrDecode = errors.New("preview.cache: failed to decode entry")
)
