package entity

import "time"

// DeliveryNote albarán: referencia libre obligatoria y notas opcionales.
type DeliveryNote struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Date         Date      `json:"date"`
	Reference    string    `json:"reference"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedDate  time.Time `json:"created_date"`
}

// DeliveryNoteSchema descriptor de la tabla delivery_notes.
var DeliveryNoteSchema = Schema[DeliveryNote]{
	Kind:       "delivery_note",
	Collection: "delivery_notes",
	Fields: []Field[DeliveryNote]{
		{Name: FieldID, Kind: KindText, System: true, Ref: func(r *DeliveryNote) any { return &r.ID }},
		{Name: FieldCustomerName, Kind: KindText, Required: true, Ref: func(r *DeliveryNote) any { return &r.CustomerName }},
		{Name: FieldDate, Kind: KindDate, Required: true, Ref: func(r *DeliveryNote) any { return &r.Date }},
		{Name: "reference", Kind: KindText, Required: true, Ref: func(r *DeliveryNote) any { return &r.Reference }},
		{Name: FieldStatus, Kind: KindStatus, Required: true, Ref: func(r *DeliveryNote) any { return &r.Status }},
		{Name: "notes", Kind: KindText, Ref: func(r *DeliveryNote) any { return &r.Notes }},
		{Name: FieldCreatedDate, Kind: KindTimestamp, System: true, Ref: func(r *DeliveryNote) any { return &r.CreatedDate }},
	},
}
