// Package testutil provides test components for exercising the request
// pipeline against a real HTTP server.
//
// TodoAPI is a small JSON API served by gin on a loopback port:
//
//	api := testutil.NewTodoAPI()
//	testutil.T(t).Setup(api)
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: api.URL()})
//
// Every request the API receives is recorded and available through
// Requests for header and body assertions.
package testutil
