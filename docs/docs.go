// Package docs holds the OpenAPI document served at /swagger.
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
        "/login": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Authenticate user and return JWT token",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.LoginResult"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "429": {
                        "description": "Too many requests",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CredentialsRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/me": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MeResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/products": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "List products with their batches and worst status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/views.ProductSummary"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "query",
                        "name": "q",
                        "description": "Search term"
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "products"
                ],
                "summary": "Create a new product",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.Product"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.ProductRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/products/import": {
            "post": {
                "tags": [
                    "import"
                ],
                "summary": "Import products via CSV",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ImportProductsResult"
                        }
                    },
                    "400": {
                        "description": "Invalid file",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "file",
                        "in": "formData",
                        "name": "file",
                        "required": true
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "mode",
                        "description": "Import mode (skip|update)"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/products/barcode/{barcode}": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Find a product by exact barcode",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.ProductSummary"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "barcode",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/products/{id}": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Get product by ID",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.ProductSummary"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "products"
                ],
                "summary": "Update a product",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Product"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.ProductUpdateRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "products"
                ],
                "summary": "Delete a product and all of its batches",
                "responses": {
                    "204": {
                        "description": "Deleted successfully"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/products/{id}/batches": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "List the batches of a product",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/views.BatchView"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/batches": {
            "get": {
                "tags": [
                    "batches"
                ],
                "summary": "List all batches, soonest expiry first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/views.BatchView"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "batches"
                ],
                "summary": "Add a batch to a product",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/views.BatchView"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    },
                    "404": {
                        "description": "Product not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.BatchRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/batches/{id}": {
            "put": {
                "tags": [
                    "batches"
                ],
                "summary": "Change the expiration date and quantity of a batch",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.BatchView"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.BatchUpdateRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "batches"
                ],
                "summary": "Delete a batch",
                "responses": {
                    "204": {
                        "description": "Deleted successfully"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/batches/warning": {
            "get": {
                "tags": [
                    "batches"
                ],
                "summary": "Batches about to expire",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.BatchList"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/batches/expired": {
            "get": {
                "tags": [
                    "batches"
                ],
                "summary": "Expired batches",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.BatchList"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/dashboard": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Dashboard stats, critical and recent batches, latest history",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/views.Dashboard"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/history": {
            "get": {
                "tags": [
                    "history"
                ],
                "summary": "Change history, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.HistoryEntry"
                            }
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "query",
                        "name": "entityType",
                        "description": "product or batch"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "action",
                        "description": "create, update or delete"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "userId",
                        "description": "Acting user ID"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "since",
                        "description": "Lower timestamp bound (RFC3339)"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "until",
                        "description": "Upper timestamp bound (RFC3339)"
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/history/export": {
            "get": {
                "tags": [
                    "history"
                ],
                "summary": "Export the change history",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "query",
                        "name": "format",
                        "description": "csv or json",
                        "required": true
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "entityType",
                        "description": "product or batch"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "action",
                        "description": "create, update or delete"
                    },
                    {
                        "type": "string",
                        "in": "query",
                        "name": "userId",
                        "description": "Acting user ID"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/json"
                ]
            }
        },
        "/users": {
            "get": {
                "tags": [
                    "users"
                ],
                "summary": "List users",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/handlers.UserResponse"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "users"
                ],
                "summary": "Create user with role",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/handlers.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "User exists",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.UserInput"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/users/{id}": {
            "put": {
                "tags": [
                    "users"
                ],
                "summary": "Update a user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/validation.FieldError"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "Username taken",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.UserInput"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "users"
                ],
                "summary": "Delete a user",
                "responses": {
                    "204": {
                        "description": "Deleted successfully"
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "Cannot delete yourself",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        }
    },
    "definitions": {
        "models.Product": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "barcode": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "updatedBy": {
                    "type": "string"
                }
            }
        },
        "models.HistoryEntry": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "entityType": {
                    "type": "string",
                    "enum": [
                        "product",
                        "batch"
                    ]
                },
                "entityId": {
                    "type": "string"
                },
                "entityName": {
                    "type": "string"
                },
                "action": {
                    "type": "string",
                    "enum": [
                        "create",
                        "update",
                        "delete"
                    ]
                },
                "userId": {
                    "type": "string"
                },
                "userName": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "changes": {
                    "type": "string"
                }
            }
        },
        "models.Actor": {
            "type": "object",
            "properties": {
                "userId": {
                    "type": "string"
                },
                "userName": {
                    "type": "string"
                },
                "isAdmin": {
                    "type": "boolean"
                }
            }
        },
        "validation.FieldError": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "views.BatchView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "productId": {
                    "type": "string"
                },
                "productName": {
                    "type": "string"
                },
                "productBarcode": {
                    "type": "string"
                },
                "expirationDate": {
                    "type": "string",
                    "example": "2026-03-15"
                },
                "quantity": {
                    "type": "integer"
                },
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "updatedBy": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "valid",
                        "warning",
                        "expired"
                    ]
                },
                "statusLabel": {
                    "type": "string"
                },
                "daysRemaining": {
                    "type": "integer"
                }
            }
        },
        "views.BatchList": {
            "type": "object",
            "properties": {
                "batches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/views.BatchView"
                    }
                },
                "totalQuantity": {
                    "type": "integer"
                }
            }
        },
        "views.Stats": {
            "type": "object",
            "properties": {
                "totalProducts": {
                    "type": "integer"
                },
                "totalBatches": {
                    "type": "integer"
                },
                "validBatches": {
                    "type": "integer"
                },
                "warningBatches": {
                    "type": "integer"
                },
                "expiredBatches": {
                    "type": "integer"
                },
                "totalQuantity": {
                    "type": "integer"
                }
            }
        },
        "views.Dashboard": {
            "type": "object",
            "properties": {
                "stats": {
                    "$ref": "#/definitions/views.Stats"
                },
                "criticalBatches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/views.BatchView"
                    }
                },
                "recentBatches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/views.BatchView"
                    }
                },
                "recentHistory": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.HistoryEntry"
                    }
                }
            }
        },
        "views.ProductSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "barcode": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "updatedBy": {
                    "type": "string"
                },
                "batchCount": {
                    "type": "integer"
                },
                "totalQuantity": {
                    "type": "integer"
                },
                "worstStatus": {
                    "type": "string",
                    "enum": [
                        "valid",
                        "warning",
                        "expired"
                    ]
                },
                "worstStatusLabel": {
                    "type": "string"
                },
                "batches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/views.BatchView"
                    }
                }
            }
        },
        "handlers.CredentialsRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "handlers.LoginResult": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/handlers.UserResponse"
                }
            }
        },
        "handlers.MeResponse": {
            "type": "object",
            "properties": {
                "user": {
                    "$ref": "#/definitions/handlers.UserResponse"
                },
                "actor": {
                    "$ref": "#/definitions/models.Actor"
                }
            }
        },
        "handlers.ProductRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "barcode": {
                    "type": "string"
                }
            }
        },
        "handlers.ProductUpdateRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "barcode": {
                    "type": "string"
                },
                "changes": {
                    "type": "string"
                }
            }
        },
        "handlers.BatchRequest": {
            "type": "object",
            "properties": {
                "productId": {
                    "type": "string"
                },
                "expirationDate": {
                    "type": "string",
                    "example": "2026-03-15"
                },
                "quantity": {
                    "type": "integer"
                }
            }
        },
        "handlers.BatchUpdateRequest": {
            "type": "object",
            "properties": {
                "expirationDate": {
                    "type": "string",
                    "example": "2026-03-15"
                },
                "quantity": {
                    "type": "integer"
                },
                "changes": {
                    "type": "string"
                }
            }
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "admin",
                        "employee"
                    ]
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                }
            }
        },
        "handlers.ImportProductsResult": {
            "type": "object",
            "properties": {
                "imported": {
                    "type": "integer"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/validation.FieldError"
                    }
                }
            }
        },
        "auth.UserInput": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "admin",
                        "employee"
                    ]
                }
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
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Expiry Tracker API",
	Description:      "REST API for tracking product batches by expiration date.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
