// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/namespaces/{namespace}/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents in a scope",
                "parameters": [
                    {"type": "string", "description": "syllabus, faculty, section or library", "name": "namespace", "in": "path", "required": true},
                    {"type": "string", "description": "Cycle", "name": "cycle_id", "in": "query", "required": true},
                    {"type": "string", "description": "Program (syllabus, library)", "name": "program_id", "in": "query"},
                    {"type": "string", "description": "Course (syllabus)", "name": "course_id", "in": "query"},
                    {"type": "string", "description": "Syllabus (syllabus)", "name": "syllabus_id", "in": "query"},
                    {"type": "string", "description": "Faculty member (faculty)", "name": "faculty_key", "in": "query"},
                    {"type": "string", "description": "Appendix letter (section)", "name": "appendix", "in": "query"},
                    {"type": "string", "description": "Section title (section)", "name": "section_title", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.documentListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload documents into a scope",
                "parameters": [
                    {"type": "string", "description": "syllabus, faculty, section or library", "name": "namespace", "in": "path", "required": true},
                    {"type": "file", "description": "Files to store", "name": "files", "in": "formData", "required": true},
                    {"type": "integer", "description": "Last-modified time of each file in ms, in file order", "name": "last_modified", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.documentListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}}
                }
            }
        },
        "/namespaces/{namespace}/imports": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Import library documents into a scope",
                "parameters": [
                    {"type": "string", "description": "syllabus, faculty, section or library", "name": "namespace", "in": "path", "required": true},
                    {"description": "Session and selected document IDs", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.importRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.documentListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}}
                }
            }
        },
        "/library/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["library"],
                "summary": "Browse the evidence library",
                "parameters": [
                    {"type": "string", "description": "Cycle", "name": "cycle_id", "in": "query", "required": true},
                    {"type": "string", "description": "Program", "name": "program_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.documentListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.listErrorPayload"}}
                }
            }
        },
        "/documents/{id}/content": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["documents"],
                "summary": "Download document content",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}": {
            "delete": {
                "tags": ["documents"],
                "summary": "Delete a document",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.listErrorPayload": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.DocumentSummary"}},
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.documentListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.DocumentSummary"}},
                "total": {"type": "integer"}
            }
        },
        "handler.importRequest": {
            "type": "object",
            "properties": {
                "cycle_id": {},
                "program_id": {},
                "ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.DocumentSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "byte_size": {"type": "integer"},
                "mime_type": {"type": "string"},
                "last_modified_ms": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Scoped Document Store API",
	Description:      "Files uploaded documents under a scope, deduplicates re-uploads and imports from the evidence library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
