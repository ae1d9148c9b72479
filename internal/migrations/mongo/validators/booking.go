package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"owner_id",
			"tenants",
			"status",
			"booked_dates",
			"lease_duration",
			"version",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"request_id": bson.M{
				"bsonType": "string",
			},

			"tenants": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"user_id", "status"},
					"properties": bson.M{
						"user_id": bson.M{"bsonType": "string", "minLength": 1},
						"status": bson.M{
							"bsonType": "string",
							"enum": []string{
								"host",
								"invited",
								"accepted",
								"declined",
							},
						},
					},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booked",
					"pending_invitation",
					"viewing_confirmed",
					"booking_confirmed",
					"booking_completed",
					"booking_declined",
				},
			},

			"booked_dates": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "date",
				},
			},

			"lease_duration": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"viewing_date": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
