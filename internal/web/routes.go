package web

// Route tokens are the logical view names the pipelines navigate between.
const (
	RouteBills   = "Bills"
	RouteNewBill = "NewBill"
)

// Navigator re-renders the document for a logical route token
type Navigator func(token string)

// Router maps route tokens to portal paths
type Router struct {
	paths map[string]string
}

// NewRouter creates the portal route table
func NewRouter() *Router {
	return &Router{
		paths: map[string]string{
			RouteBills:   "/bills",
			RouteNewBill: "/bills/new",
		},
	}
}

// Path resolves a route token to its path. Unknown tokens land on the bill
// list, the portal's home view.
func (r *Router) Path(token string) string {
	if path, ok := r.paths[token]; ok {
		return path
	}
	return r.paths[RouteBills]
}
