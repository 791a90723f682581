package builder

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"drerwrk/database"
	"drerwrk/respond"
)

// ComponentsHandler lists candidate components for one category. The socket
// filter applies only to motherboards and the RAM-type filter only to RAM;
// without them the whole category is offered.
func ComponentsHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category := q.Get("category")
		if category == "" {
			respond.Error(w, http.StatusBadRequest, "A component category is required.")
			return
		}

		cpuSocketID := ""
		ramTypeID := ""
		if category == CategoryMotherboards {
			cpuSocketID = q.Get("cpu_socket_id")
		}
		if category == CategoryRAM {
			ramTypeID = q.Get("ram_type_id")
		}

		components, err := database.GetComponentsByCategory(conn, category, cpuSocketID, ramTypeID)
		if err != nil {
			log.Printf("Error fetching builder components for %s: %v", category, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch components.")
			return
		}
		respond.JSON(w, http.StatusOK, components)
	}
}
