package repository

// Models lists every table-backed struct for schema migration.
func Models() []any {
	return []any{
		&serviceModel{},
		&workerModel{},
		&workerServiceModel{},
		&availabilitySlotModel{},
		&availabilityExceptionModel{},
		&bookingModel{},
	}
}
