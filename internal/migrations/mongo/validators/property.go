package validators

import "go.mongodb.org/mongo-driver/bson"

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"type",
			"owner_id",
			"title",
			"city",
			"status",
			"price",
			"lease_terms",
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
					"apartment",
					"transient",
				},
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 80,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"unavailable",
					"deleted",
				},
			},

			"price": bson.M{
				"bsonType":         "double",
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"lease_terms": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "int",
					"minimum":  1,
				},
			},

			"coordinates": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"lat": bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
					"lng": bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
				},
			},

			"apartment": bson.M{
				"bsonType": "object",
			},

			"transient": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
