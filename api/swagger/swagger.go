package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Aularium API",
        "description": "Classroom timetabling: conflict checks on group sessions and room assignment.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and identity"},
        {"name": "Teachers", "description": "Teachers and weekly availability"},
        {"name": "Rooms", "description": "Rooms and capacities"},
        {"name": "Subjects", "description": "Subjects per academic period"},
        {"name": "Groups", "description": "Groups and their weekly sessions"},
        {"name": "Assignments", "description": "Room assignments of sessions"},
        {"name": "Grid", "description": "Room occupancy grid and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for an access token",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/teachers/{id}": {
            "get": {"tags": ["Teachers"], "summary": "Get teacher", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Teachers"], "summary": "Update teacher", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Teachers"], "summary": "Delete teacher and clear it from subjects", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/teachers/{id}/availability": {
            "put": {
                "tags": ["Teachers"],
                "summary": "Replace weekly availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/WeeklyAvailability"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms": {
            "get": {"tags": ["Rooms"], "summary": "List rooms", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Rooms"], "summary": "Create room", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate name"}}}
        },
        "/rooms/{id}": {
            "get": {"tags": ["Rooms"], "summary": "Get room", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Rooms"], "summary": "Update room", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Rooms"], "summary": "Delete room and unassign its sessions", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/periods/{period}/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/periods/{period}/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Subjects"], "summary": "Update subject; a teacher change revalidates every session", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject with its groups", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/periods/{period}/groups": {
            "get": {"tags": ["Groups"], "summary": "List groups", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "query", "name": "subject_id", "type": "string"}, {"in": "query", "name": "shift", "type": "string", "enum": ["MORNING", "AFTERNOON"]}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Groups"],
                "summary": "Create group; sessions are conflict checked and rooms assigned",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/Period"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/GroupRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/periods/{period}/groups/check-slot": {
            "post": {
                "tags": ["Groups"],
                "summary": "Check one candidate slot against staged sessions",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/Period"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SlotCheckRequest"}}],
                "responses": {"200": {"description": "Availability with the first conflict, if any"}}
            }
        },
        "/periods/{period}/groups/{id}": {
            "get": {"tags": ["Groups"], "summary": "Get group", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Groups"], "summary": "Replace group sessions", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Schedule conflict"}}},
            "delete": {"tags": ["Groups"], "summary": "Delete group with its assignments", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/periods/{period}/assignments": {
            "get": {"tags": ["Assignments"], "summary": "List assignments", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}, {"in": "query", "name": "room_id", "type": "string"}, {"in": "query", "name": "unassigned", "type": "boolean"}], "responses": {"200": {"description": "OK"}}}
        },
        "/periods/{period}/assignments/{id}/room": {
            "patch": {
                "tags": ["Assignments"],
                "summary": "Move a session to another room or clear its room",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/Period"}, {"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ReassignRequest"}}],
                "responses": {"200": {"description": "Moved, possibly with a capacity warning"}, "409": {"description": "Room occupied"}}
            }
        },
        "/periods/{period}/assignments/auto-assign": {
            "post": {"tags": ["Assignments"], "summary": "Assign rooms to every pending session", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}], "responses": {"200": {"description": "OK"}}}
        },
        "/periods/{period}/assignments/undo": {
            "post": {"tags": ["Assignments"], "summary": "Clear every room assignment of the period", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}], "responses": {"200": {"description": "OK"}}}
        },
        "/periods/{period}/assignments/integrity": {
            "get": {"tags": ["Assignments"], "summary": "Report double-booked rooms", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/Period"}], "responses": {"200": {"description": "OK"}}}
        },
        "/periods/{period}/grid": {
            "get": {
                "tags": ["Grid"],
                "summary": "Room by hour occupancy grid",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/Period"},
                    {"in": "query", "name": "shift", "type": "string", "enum": ["MORNING", "AFTERNOON"]},
                    {"in": "query", "name": "format", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Dependency unavailable"}}}
        },
        "/metrics": {
            "get": {"summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "Period": {"in": "path", "name": "period", "required": true, "type": "string", "enum": ["1", "2", "3"]}
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "TimeSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"]},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "10:00"}
            }
        },
        "WeeklyAvailability": {
            "type": "object",
            "additionalProperties": {"type": "array", "items": {"type": "string", "example": "08:00"}}
        },
        "TeacherRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "availability": {"$ref": "#/definitions/WeeklyAvailability"}
            }
        },
        "RoomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "SubjectRequest": {
            "type": "object",
            "required": ["name", "career_id"],
            "properties": {
                "name": {"type": "string"},
                "teacher_id": {"type": "string"},
                "career_id": {"type": "string"}
            }
        },
        "GroupRequest": {
            "type": "object",
            "required": ["subject_id", "number", "shift"],
            "properties": {
                "subject_id": {"type": "string"},
                "number": {"type": "string"},
                "student_count": {"type": "integer"},
                "shift": {"type": "string", "enum": ["MORNING", "AFTERNOON"]},
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            }
        },
        "SlotCheckRequest": {
            "type": "object",
            "required": ["subject_id", "candidate"],
            "properties": {
                "group_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "staged": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}},
                "candidate": {"$ref": "#/definitions/TimeSlot"}
            }
        },
        "ReassignRequest": {
            "type": "object",
            "properties": {
                "room_id": {"type": "string", "x-nullable": true}
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
