package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HR Onboard API",
        "description": "Learning assignment and deadline notification engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Learning", "description": "Learning plan assignment and progress tracking"},
        {"name": "Jobs", "description": "Batch job trigger endpoints"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/learning/assignments": {
            "post": {
                "tags": ["Learning"],
                "summary": "Assign a learning plan to a fresher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignLearningPlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learning/freshers/{id}/resources": {
            "post": {
                "tags": ["Learning"],
                "summary": "Add a custom resource to a fresher's plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCustomResourceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learning/freshers/{id}/progress": {
            "get": {
                "tags": ["Learning"],
                "summary": "Get a fresher's learning progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learning/freshers/{id}/progress/{itemNo}": {
            "patch": {
                "tags": ["Learning"],
                "summary": "Update one progress item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "itemNo", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs/reminders": {
            "post": {
                "tags": ["Jobs"],
                "summary": "Run the reminder batch job",
                "parameters": [
                    {"name": "asOf", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs/milestones": {
            "post": {
                "tags": ["Jobs"],
                "summary": "Run the milestone report batch job",
                "parameters": [
                    {"name": "asOf", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs/expiry": {
            "post": {
                "tags": ["Jobs"],
                "summary": "Run the expiry notice batch job",
                "parameters": [
                    {"name": "asOf", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AssignLearningPlanRequest": {
            "type": "object",
            "properties": {
                "fresher_id": {"type": "string"},
                "department": {"type": "string"}
            },
            "required": ["fresher_id"]
        },
        "AddCustomResourceRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "link": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "notes": {"type": "string"}
            },
            "required": ["title"]
        },
        "UpdateProgressRequest": {
            "type": "object",
            "properties": {
                "is_completed": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "LearningAssignment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fresher_id": {"type": "string"},
                "department": {"type": "string"},
                "catalog_key": {"type": "string"},
                "assigned_at": {"type": "string"},
                "duration_days": {"type": "integer"},
                "deadline": {"type": "string"},
                "last_reminder_sent": {"type": "string"},
                "deadline_notified_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ProgressItem": {
            "type": "object",
            "properties": {
                "item_no": {"type": "integer"},
                "title": {"type": "string"},
                "link": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "is_completed": {"type": "boolean"},
                "completed_at": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "JobRunSummary": {
            "type": "object",
            "properties": {
                "job": {"type": "string"},
                "ran_at": {"type": "string"},
                "selected": {"type": "integer"},
                "notified": {"type": "integer"},
                "failed": {"type": "integer"},
                "skipped": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
