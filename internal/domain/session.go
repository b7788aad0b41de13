package domain

// ChargingSession зарядная сессия (пост беспроводной зарядки)
type ChargingSession struct {
	ID   int64
	Name string
}

// SessionBucket бронирования одной сессии на одну дату.
// Не хранится, собирается из выборки на время расчета
type SessionBucket struct {
	SessionID    int64
	Name         string
	Reservations []*Reservation
}

// FindBucket ищет бакет сессии; nil, если для сессии нет данных
func FindBucket(buckets []SessionBucket, sessionID int64) *SessionBucket {
	for i := range buckets {
		if buckets[i].SessionID == sessionID {
			return &buckets[i]
		}
	}
	return nil
}
