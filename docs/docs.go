// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "Service healthy"}, "503": {"description": "Database unreachable"}}}},
        "/curricula": {"get": {"tags": ["catalog"], "summary": "List curricula", "responses": {"200": {"description": "Curricula retrieved successfully"}}}},
        "/curricula/{id}": {"get": {"tags": ["catalog"], "summary": "Get curriculum details", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Curriculum retrieved successfully"}, "404": {"description": "Curriculum not found"}}}},
        "/curricula/{id}/classify/{code}": {"get": {"tags": ["catalog"], "summary": "Classify a course", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "Course classified"}, "404": {"description": "Curriculum not found"}}}},
        "/courses": {"get": {"tags": ["catalog"], "summary": "Search courses", "parameters": [{"type": "string", "name": "search", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "size", "in": "query"}], "responses": {"200": {"description": "Courses retrieved successfully"}}}},
        "/courses/{code}": {"get": {"tags": ["catalog"], "summary": "Get course details", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "Course retrieved successfully"}, "404": {"description": "Course not found"}}}},
        "/records": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "List course records", "parameters": [{"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "string", "name": "search", "in": "query"}], "responses": {"200": {"description": "Records retrieved successfully"}, "400": {"description": "Invalid filter"}, "401": {"description": "Unauthorized"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Add a course record", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCourseRecordRequest"}}], "responses": {"201": {"description": "Record created successfully"}, "400": {"description": "Invalid request data"}, "401": {"description": "Unauthorized"}}}
        },
        "/records/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Get a course record", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Record retrieved successfully"}, "404": {"description": "Record not found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Update a course record", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateCourseRecordRequest"}}], "responses": {"200": {"description": "Record updated successfully"}, "400": {"description": "Invalid request data"}, "404": {"description": "Record not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Delete a course record", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Record deleted successfully"}, "404": {"description": "Record not found"}}}
        },
        "/progress/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Get progress stats", "parameters": [{"type": "string", "name": "curriculum", "in": "query"}], "responses": {"200": {"description": "Stats computed"}, "404": {"description": "Curriculum not found"}}}},
        "/progress/prerequisites": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Get prerequisite warnings", "responses": {"200": {"description": "Warnings computed"}}}},
        "/progress/prerequisites/{code}": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Check a course's prerequisites", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "Check computed"}}}},
        "/progress/average-grade": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Get average grade", "responses": {"200": {"description": "Average computed"}}}},
        "/progress/timeline": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Get timeline", "parameters": [{"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "string", "name": "search", "in": "query"}], "responses": {"200": {"description": "Timeline computed"}, "400": {"description": "Invalid filter"}}}},
        "/transfer/import": {"post": {"security": [{"BearerAuth": []}], "tags": ["transfer"], "summary": "Import records", "consumes": ["application/json"], "parameters": [{"name": "file", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}], "responses": {"200": {"description": "Records imported"}, "400": {"description": "Malformed file"}, "413": {"description": "File too large"}}}},
        "/transfer/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["transfer"], "summary": "Export records", "produces": ["application/json", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"enum": ["json", "xlsx"], "type": "string", "default": "json", "name": "format", "in": "query"}], "responses": {"200": {"description": "Backup file"}, "400": {"description": "Unknown format"}}}},
        "/live": {"get": {"security": [{"BearerAuth": []}], "tags": ["live"], "summary": "Stream live progress", "parameters": [{"type": "string", "name": "curriculum", "in": "query"}], "responses": {"101": {"description": "Switching Protocols to WebSocket"}, "404": {"description": "Unknown curriculum"}}}}
    },
    "definitions": {
        "dto.CreateCourseRecordRequest": {
            "type": "object",
            "required": ["code", "year", "term", "category", "status"],
            "properties": {
                "code": {"type": "string", "example": "BCM0504-15"},
                "name": {"type": "string"},
                "credits": {"type": "integer", "minimum": 0},
                "year": {"type": "integer", "example": 2024},
                "term": {"type": "integer", "enum": [1, 2, 3]},
                "category": {"type": "string", "enum": ["required", "limited", "free"]},
                "status": {"type": "string", "enum": ["completed", "planned"]},
                "grade": {"type": "string", "example": "A"}
            }
        },
        "dto.UpdateCourseRecordRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "term": {"type": "integer", "enum": [1, 2, 3]},
                "category": {"type": "string", "enum": ["required", "limited", "free"]},
                "status": {"type": "string", "enum": ["completed", "planned"]},
                "grade": {"type": "string"},
                "clearGrade": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Degree Planner API",
	Description:      "Tracks completed and planned courses against a curriculum and reports degree progress",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
