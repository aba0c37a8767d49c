package providers

import (
	"fmt"
	"net/http"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
	// Known reports whether url was registered, for bounded metric labels.
	Known(url string) bool
}

// RouterProvider keeps one handler per path in registration order. Every
// injector endpoint answers a single method.
type RouterProvider struct {
	routes []structures.Route
	byURL  map[string]struct{}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	if _, dup := rp.byURL[url]; dup {
		panic(fmt.Sprintf("route %s registered twice", url))
	}
	rp.byURL[url] = struct{}{}
	rp.routes = append(rp.routes, structures.Route{
		Method:  method,
		Url:     url,
		Handler: methodHandler(method, handler),
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func (rp *RouterProvider) Known(url string) bool {
	_, ok := rp.byURL[url]
	return ok
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{byURL: make(map[string]struct{})}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
