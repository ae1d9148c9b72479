package validators

import "go.mongodb.org/mongo-driver/bson"

var ArchiveValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"type",
			"status",
			"original_path",
			"property",
			"archived_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Archive records reuse the archived property's own id.
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"apartment",
					"transient",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"unavailable",
					"deleted",
				},
			},

			"original_path": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"property": bson.M{
				"bsonType": "object",
			},

			"archived_at": bson.M{
				"bsonType": "date",
			},

			"delete_after": bson.M{
				"bsonType": "date",
			},

			"restore_after": bson.M{
				"bsonType": "date",
			},
		},
	},
}
