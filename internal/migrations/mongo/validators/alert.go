package validators

import "go.mongodb.org/mongo-driver/bson"

var AlertValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"type",
			"message",
			"property_id",
			"receiver",
			"read",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booking_requested",
					"invitation",
					"invitation_response",
					"viewing_approved",
					"booking_approved",
					"booking_declined",
					"tenant_evicted",
					"booking_completed",
					"property_archived",
					"property_restored",
				},
			},

			"message": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"booking_id": bson.M{
				"bsonType": "string",
			},

			"sender": bson.M{
				"bsonType": "string",
			},

			"receiver": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"token": bson.M{
				"bsonType": "string",
			},

			"read": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
