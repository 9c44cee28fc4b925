// Package docs registers the Swagger document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/comments/{commentId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Delete own comment",
                "parameters": [
                    {"type": "string", "description": "Comment ID", "name": "commentId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/feed": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Visible posts of the viewer's neighborhood, newest first",
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Neighborhood feed",
                "parameters": [
                    {"type": "integer", "description": "page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "cursor from the previous page", "name": "cursor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeedResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/moderation/learning": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reanalyses that changed a verdict, newest first. Admin or moderator role only",
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Moderation learning log",
                "parameters": [
                    {"type": "integer", "description": "max entries (default 50, max 500)", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "only entries with a changed decision (default true)", "name": "changedOnly", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LearningListResp"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Moderates the text and stores the post with its verdict",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"description": "Post body", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreatePostReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreatePostResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/posts/{postId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the post with its comments and reports",
                "tags": ["posts"],
                "summary": "Delete own post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/posts/{postId}/comments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Oldest first with cursor pagination",
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Comments of a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"type": "integer", "description": "page size (default 50, max 200)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "cursor from the previous page", "name": "cursor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListCommentsResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Only visible posts of the viewer's neighborhood take comments",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Comment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCommentReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/posts/{postId}/concern": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "One concern per neighbor per post; every threshold-th concern triggers a reanalysis",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["concerns"],
                "summary": "Raise a concern about a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Concern", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ConcernReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConcernResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/posts/{postId}/reports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Only the post's author may list them",
                "produces": ["application/json"],
                "tags": ["concerns"],
                "summary": "Concerns raised about a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ConcernReq": {
            "type": "object",
            "properties": {
                "details": {"type": "string", "example": "Same ad posted three times today"},
                "reason": {"type": "string", "example": "promotional"}
            }
        },
        "dto.ConcernResp": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "reportCount": {"type": "integer"},
                "success": {"type": "boolean"},
                "willReanalyze": {"type": "boolean"}
            }
        },
        "dto.CreateCommentReq": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "I can lend you a ladder"}
            }
        },
        "dto.CreatePostReq": {
            "type": "object",
            "properties": {
                "imageUrl": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "dto.CreatePostResp": {
            "type": "object",
            "properties": {
                "post": {"type": "object"},
                "revisionSuggestion": {"type": "string"},
                "userMessage": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid body"}
            }
        },
        "dto.FeedResp": {
            "type": "object",
            "properties": {
                "has_more": {"type": "boolean", "example": true},
                "items": {"type": "array", "items": {"type": "object"}},
                "next_cursor": {"type": "string"}
            }
        },
        "dto.ListCommentsResp": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"type": "object"}},
                "has_more": {"type": "boolean", "example": false},
                "next_cursor": {"type": "string"}
            }
        },
        "dto.LearningListResp": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 3},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Neighbours Only API",
	Description:      "Posts, neighborhood feed and community moderation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
