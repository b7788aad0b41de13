package verify_plate

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase.
// Некорректный ввод и конфликт ошибками не являются, они приходят в Response
var ErrInternal = errors.New("verify_plate: internal error")

// Результаты проверки для метрик
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeConflict = "conflict"
)

// Сообщения для клиента
const (
	MsgAvailable       = "бронирование возможно"
	MsgInvalidPlate    = "некорректный номер автомобиля"
	MsgInvalidInterval = "некорректный интервал бронирования"
	MsgSessionBusy     = "выбранное время в этой сессии уже занято"
	MsgPlateBusy       = "этот автомобиль уже забронирован на пересекающееся время"
)
