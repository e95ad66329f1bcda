package callback

import "net/url"

// Params are the callback values a provider may put in the query string or fragment.
type Params struct {
	Code             string
	State            string
	AccessToken      string
	RefreshToken     string
	ExpiresIn        string
	Type             string
	Token            string
	Error            string
	ErrorDescription string
}

// ParseParams reads the query string and then the fragment; non-empty fragment
// values win, since implicit and email-link flows put tokens there.
func ParseParams(u *url.URL) Params {
	p := ParamsFromValues(u.Query())
	if u.Fragment == "" {
		return p
	}
	frag, err := url.ParseQuery(u.EscapedFragment())
	if err != nil {
		return p
	}
	return p.merge(ParamsFromValues(frag))
}

func ParamsFromValues(v url.Values) Params {
	return Params{
		Code:             v.Get("code"),
		State:            v.Get("state"),
		AccessToken:      v.Get("access_token"),
		RefreshToken:     v.Get("refresh_token"),
		ExpiresIn:        v.Get("expires_in"),
		Type:             v.Get("type"),
		Token:            v.Get("token"),
		Error:            v.Get("error"),
		ErrorDescription: v.Get("error_description"),
	}
}

func (p Params) merge(o Params) Params {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return Params{
		Code:             pick(p.Code, o.Code),
		State:            pick(p.State, o.State),
		AccessToken:      pick(p.AccessToken, o.AccessToken),
		RefreshToken:     pick(p.RefreshToken, o.RefreshToken),
		ExpiresIn:        pick(p.ExpiresIn, o.ExpiresIn),
		Type:             pick(p.Type, o.Type),
		Token:            pick(p.Token, o.Token),
		Error:            pick(p.Error, o.Error),
		ErrorDescription: pick(p.ErrorDescription, o.ErrorDescription),
	}
}

// HasAuthParams reports whether the URL carries something a login may still be processing.
func (p Params) HasAuthParams() bool {
	return p.Code != "" || p.AccessToken != "" || p.Token != ""
}

// Empty reports whether no callback value at all was present.
func (p Params) Empty() bool {
	return p == Params{}
}
