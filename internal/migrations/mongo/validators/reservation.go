package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"resource_id",
			"owner_id",
			"start_time",
			"end_time",
			"title",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"usage": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"sharing": bson.M{
				"bsonType": "bool",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"requested",
					"confirmed",
					"rejected",
				},
			},

			"reject_message": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"is_returned": bson.M{
				"bsonType": "bool",
			},

			"return_message": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"invitees": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"attachments": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"last_modified_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
