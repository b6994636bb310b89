package model

import "time"

// RoomType mirrors the `room_types` table.  Image paths are stored as
// plain strings; upload storage is handled outside this service.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique room type name (e.g. "Deluxe").
//  Description   – free-text description shown to customers.
//  PricePerNight – default nightly price in major currency units.
//  ImagePath     – optional path to a marketing image.
type RoomType struct {
	ID            uint64    // room_types.id
	Name          string    // room_types.name
	Description   string    // room_types.description
	PricePerNight float64   // room_types.price_per_night
	ImagePath     string    // room_types.image_path
	CreatedAt     time.Time // room_types.created_at
}

// Room mirrors the `rooms` table.  Each room belongs to a room type and
// carries its own nightly price, defaulted from the type when the admin
// does not override it.
type Room struct {
	ID            uint64    // rooms.id
	RoomNumber    string    // rooms.room_number (unique)
	RoomTypeID    uint64    // rooms.room_type_id
	PricePerNight float64   // rooms.price_per_night
	CreatedAt     time.Time // rooms.created_at
}
