package dida

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

// outboundRequest models one outbound API call.
type outboundRequest struct {
	// method specifies the HTTP method to be used.
	method string
	// path specifies a path (relative to the root of the API) to be used.
	path string
	// queryParams optionally specifies any URL query parameters to be used.
	queryParams map[string]string
	// headers optionally specifies any miscellaneous HTTP headers to be used.
	headers map[string]string
	// reqBodyObj optionally provides an object that can be marshaled to
	// create the body of the HTTP request.
	reqBodyObj interface{}
	// successCode specifies what HTTP response code should indicate a
	// successful API call.
	successCode int
	// respObj optionally provides an object into which the HTTP response
	// body can be unmarshaled.
	respObj interface{}
}

// baseClient provides "API machinery" used by all the specialized API
// clients. Its various functions remove the tedium from common API-related
// operations like encoding request bodies, interpreting response codes,
// decoding response bodies, and more.
type baseClient struct {
	apiAddress string
	httpClient *http.Client
}

// executeRequest accepts one argument-- an outboundRequest-- that models all
// aspects of a single API call in a succinct fashion. Based on this
// information, this function prepares and executes an HTTP request,
// interprets the HTTP response code and decodes the response body into a
// user-supplied type.
func (b *baseClient) executeRequest(req outboundRequest) error {
	resp, err := b.submitRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint: errcheck
	if req.respObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if err := json.Unmarshal(respBodyBytes, req.respObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

// submitRequest accepts one argument-- an outboundRequest-- that models all
// aspects of a single API call in a succinct fashion. Based on this
// information, this function prepares and executes an HTTP request and
// returns the HTTP response. This is a lower-level function than
// executeRequest(). It is used by executeRequest(), but is also suitable for
// use in cases where specialized response handling is required.
func (b *baseClient) submitRequest(
	req outboundRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if req.reqBodyObj != nil {
		switch rb := req.reqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(req.reqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	r, err := http.NewRequest(
		req.method,
		fmt.Sprintf("%s/%s", b.apiAddress, req.path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.method,
			req.path,
		)
	}
	if len(req.queryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.queryParams {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
	for k, v := range req.headers {
		r.Header.Add(k, v)
	}

	resp, err := b.httpClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	if (req.successCode == 0 && resp.StatusCode != http.StatusOK) ||
		(req.successCode != 0 && resp.StatusCode != req.successCode) {
		// HTTP Response code hints at what sort of error might be in the body
		// of the response
		var apiErr error
		switch resp.StatusCode {
		case http.StatusBadRequest:
			apiErr = &ErrBadRequest{}
		case http.StatusUnauthorized:
			apiErr = &ErrNoSession{}
		case http.StatusNotFound:
			apiErr = &ErrNotFound{}
		case http.StatusRequestTimeout:
			apiErr = &ErrPollTimeout{}
		case http.StatusNotImplemented:
			apiErr = &ErrNotSupported{}
		case http.StatusBadGateway:
			apiErr = &ErrUpstreamHTTP{}
		case http.StatusInternalServerError:
			apiErr = &ErrInternalServer{}
		default:
			return nil, errors.Errorf(
				"received %d from API server",
				resp.StatusCode,
			)
		}
		bodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error reading error response body")
		}
		if err = json.Unmarshal(bodyBytes, apiErr); err != nil {
			return nil, errors.Wrap(
				err,
				"error unmarshaling error response body",
			)
		}
		return nil, apiErr
	}
	return resp, nil
}
