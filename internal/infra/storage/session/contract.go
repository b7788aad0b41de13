package session

import "github.com/m04kA/EVCharge-ReservationService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
