package httpclient

// classify turns an executor outcome into response bytes or an error.
//
// Precedence: a transport error wins over anything else; bytes with a status
// are checked against 2xx; bytes without a status are accepted. An outcome
// carrying nothing at all is reported as a logic error rather than dropped.
func classify(o Outcome) ([]byte, error) {
	switch {
	case o.Err != nil:
		return nil, NewUnderlyingError(o.Err)
	case o.Body != nil && o.Response != nil:
		if isSuccess(o.Response.StatusCode) {
			return o.Body, nil
		}
		return nil, NewStatusCodeError(o.Response, o.Body)
	case o.Body != nil:
		return o.Body, nil
	default:
		return nil, NewLogicError("executor produced no outcome")
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code <= 299
}
