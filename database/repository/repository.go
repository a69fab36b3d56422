package repository

import (
	appointmentRepo "quitcoach/database/repository/appointment"
	availabilityRepo "quitcoach/database/repository/availability"
	profileRepo "quitcoach/database/repository/profile"
	timeslotRepo "quitcoach/database/repository/timeslot"
)

// Re-export the TimeSlotCatalog interface and constructors.
type TimeSlotCatalog = timeslotRepo.TimeSlotCatalog

var (
	NewStaticCatalog = timeslotRepo.NewStaticCatalog
	ParseCatalog     = timeslotRepo.ParseCatalog
	LoadMongoCatalog = timeslotRepo.LoadMongoCatalog
)

// Re-export the AvailabilityRepository interface and constructors.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

var (
	NewMongoAvailabilityRepo  = availabilityRepo.NewMongoAvailabilityRepo
	NewMemoryAvailabilityRepo = availabilityRepo.NewMemoryAvailabilityRepo
)

// Re-export the AppointmentRepository interface and constructors.
type AppointmentRepository = appointmentRepo.AppointmentRepository

var (
	NewMongoAppointmentRepo  = appointmentRepo.NewMongoAppointmentRepo
	NewMemoryAppointmentRepo = appointmentRepo.NewMemoryAppointmentRepo
)

// Re-export the ProfileDirectory interface and constructors.
type ProfileDirectory = profileRepo.ProfileDirectory

var (
	NewMongoProfileDirectory  = profileRepo.NewMongoProfileDirectory
	NewMemoryProfileDirectory = profileRepo.NewMemoryProfileDirectory
)
