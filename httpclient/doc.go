// Package httpclient is a typed HTTP request pipeline.
//
// A Requestable declares a family of requests by body parameter type and
// response type. A call resolves the base URL (absolute first path segment,
// then the request family's Endpoint, then the client Config), builds the
// request, runs it through an Executor once and classifies the outcome into
// a decoded value or a *RequestError.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://jsonplaceholder.typicode.com",
//	    Auth:    httpclient.BearerAuth{Token: "my-token"},
//	})
//
//	var getTodo = httpclient.Requestable[httpclient.None, Todo]{}
//	todo, err := getTodo.Do(ctx, client, httpclient.Segments("todos", "1"))
//
// # Bodies and encodings
//
//	var createTodo = httpclient.Requestable[Todo, Todo]{
//	    Method:   httpclient.MethodPost,
//	    Encoding: httpclient.EncodingQuery,
//	}
//	created, err := createTodo.DoWith(ctx, client, httpclient.Segments("todos"), todo)
//
// # Errors
//
// Every failure is a *RequestError; use IsStatusCode, IsUnderlying and the
// other predicates, or StatusCodeOf, to branch on it.
//
// # Diagnostics
//
// Each exchange produces a Diagnostic (YAML plus a curl reproduction) that is
// handed to the client's DiagnosticSink. The default sink logs it at debug
// level with credentials redacted.
package httpclient
