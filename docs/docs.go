// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@habitlog.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue access token",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/user/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Signup request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/signupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/detailResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Login request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List habits",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/habit"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/user/habit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Add habit",
                "parameters": [
                    {"description": "Habit to add", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/subscribeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/detailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/user/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List user habits",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/userHabit"}}}
                }
            }
        },
        "/user/habit/log": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Log habit",
                "parameters": [
                    {"type": "string", "description": "Subscription ID", "name": "user_habit_id", "in": "formData", "required": true},
                    {"type": "file", "description": "Evidence photo", "name": "image_file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/logResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/user/streaks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Weekly streaks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/weeklyBreakdown"}}}
                }
            }
        },
        "/user/location": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update location",
                "parameters": [
                    {"description": "Coordinates", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/locationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/detailResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Habit leaderboard",
                "parameters": [
                    {"type": "string", "description": "Habit ID", "name": "habit_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/leaderboardEntry"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        },
        "/leaderboard/nearby": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Nearby leaderboard",
                "parameters": [
                    {"type": "string", "description": "Habit ID", "name": "habit_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/nearbyEntry"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "errorBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
                }
            }
        },
        "detailResponse": {"type": "object", "properties": {"detail": {"type": "string"}}},
        "signupRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "loginResponse": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string"}, "username": {"type": "string"}}
        },
        "subscribeRequest": {"type": "object", "properties": {"habit_id": {"type": "string"}}},
        "locationRequest": {
            "type": "object",
            "properties": {"latitude": {"type": "number"}, "longitude": {"type": "number"}}
        },
        "habit": {
            "type": "object",
            "properties": {"habit_id": {"type": "string"}, "habit_name": {"type": "string"}, "description": {"type": "string"}}
        },
        "userHabit": {
            "type": "object",
            "properties": {
                "user_habit_id": {"type": "string"},
                "habit_id": {"type": "string"},
                "start_date": {"type": "string"},
                "current_streak": {"type": "integer"},
                "habit_name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "logResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "user_habit_id": {"type": "string"},
                "previous_streak": {"type": "integer"},
                "current_streak": {"type": "integer"},
                "transition": {"type": "string"}
            }
        },
        "weeklyBreakdown": {
            "type": "object",
            "properties": {
                "habit_name": {"type": "string"},
                "breakdown": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "leaderboardEntry": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "current_streak": {"type": "integer"}}
        },
        "nearbyEntry": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "current_streak": {"type": "integer"}, "distance_m": {"type": "number"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HabitLog API",
	Description:      "Photo-verified habit logging with streaks and leaderboards",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
