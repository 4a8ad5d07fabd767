package request

// ByIDRequest binds the :id path parameter shared by every resource route.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
