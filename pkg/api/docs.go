package api

import (
	"github.com/swaggo/swag"
)

// swaggerDoc describes the routes registered by NewRouter. Keep it in step
// with the handler annotations in handlers.go.
const swaggerDoc = `{
  "swagger": "2.0",
  "info": {
    "title": "bandkit REST API",
    "description": "Decode and encode raster pixel buffers and read and write bands of stored datasets.",
    "version": "1.0.0"
  },
  "basePath": "/api/v1",
  "securityDefinitions": {
    "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
  },
  "security": [{"ApiKeyAuth": []}],
  "paths": {
    "/health": {
      "get": {"summary": "Health check", "tags": ["system"], "responses": {"200": {"description": "OK"}}}
    },
    "/types": {
      "get": {"summary": "List pixel types", "tags": ["codec"], "responses": {"200": {"description": "OK"}}}
    },
    "/decode": {
      "post": {
        "summary": "Decode a raw pixel buffer",
        "tags": ["codec"],
        "consumes": ["application/octet-stream"],
        "parameters": [
          {"name": "type", "in": "query", "required": true, "type": "string"},
          {"name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}, "422": {"description": "Complex pixel type"}}
      }
    },
    "/encode": {
      "post": {
        "summary": "Encode samples into a raw pixel buffer",
        "tags": ["codec"],
        "produces": ["application/octet-stream"],
        "parameters": [
          {"name": "type", "in": "query", "required": true, "type": "string"},
          {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValuesRequest"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}, "422": {"description": "Complex pixel type"}}
      }
    },
    "/datasets": {
      "get": {"summary": "List datasets", "tags": ["datasets"], "responses": {"200": {"description": "OK"}}},
      "post": {
        "summary": "Create a dataset",
        "tags": ["datasets"],
        "parameters": [
          {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDatasetRequest"}}
        ],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Bad request"}}
      }
    },
    "/datasets/{id}": {
      "get": {
        "summary": "Get a dataset",
        "tags": ["datasets"],
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
      },
      "delete": {
        "summary": "Drop a dataset",
        "tags": ["datasets"],
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
      }
    },
    "/datasets/{id}/bands/{band}": {
      "get": {
        "summary": "Read a band region",
        "tags": ["bands"],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "string"},
          {"name": "band", "in": "path", "required": true, "type": "integer"},
          {"name": "x", "in": "query", "type": "integer"},
          {"name": "y", "in": "query", "type": "integer"},
          {"name": "w", "in": "query", "type": "integer"},
          {"name": "h", "in": "query", "type": "integer"}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}, "404": {"description": "Not found"}}
      },
      "put": {
        "summary": "Write a band region",
        "tags": ["bands"],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "type": "string"},
          {"name": "band", "in": "path", "required": true, "type": "integer"},
          {"name": "x", "in": "query", "type": "integer"},
          {"name": "y", "in": "query", "type": "integer"},
          {"name": "w", "in": "query", "type": "integer"},
          {"name": "h", "in": "query", "type": "integer"},
          {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValuesRequest"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}, "404": {"description": "Not found"}}
      }
    }
  },
  "definitions": {
    "ValuesRequest": {
      "type": "object",
      "properties": {"values": {"type": "array", "items": {}}}
    },
    "CreateDatasetRequest": {
      "type": "object",
      "properties": {
        "xsize": {"type": "integer"},
        "ysize": {"type": "integer"},
        "bands": {"type": "integer"},
        "type": {"type": "string"}
      }
    }
  }
}`

type apiDoc struct{}

func (apiDoc) ReadDoc() string { return swaggerDoc }

func init() {
	swag.Register(swag.Name, apiDoc{})
}
