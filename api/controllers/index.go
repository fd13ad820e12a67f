package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventory-backend/api/responses"
)

func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteMessage(w, "Inventory Management System")
	}
}
