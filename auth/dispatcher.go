package auth

import (
	"github.com/maxpert/auth-go/credential"
	"github.com/maxpert/auth-go/errors"
)

// Dispatcher translates batches of negotiation requests from an external
// mechanism into state machine calls. Requests are resolved strictly in
// order; a batch stops only on an unrecoverable error. Individual requests
// may be left unanswered (declined) so the mechanism can fall back to a
// different credential type.
type Dispatcher struct {
	ctx *Context
}

// NewDispatcher creates a dispatcher bound to one authentication context
func NewDispatcher(ctx *Context) *Dispatcher {
	return &Dispatcher{ctx: ctx}
}

// Handle resolves one ordered batch of negotiation requests
func (d *Dispatcher) Handle(requests ...Request) error {
	for _, request := range requests {
		if err := d.handleOne(request); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) handleOne(request Request) error {
	metrics := d.ctx.metrics

	switch r := request.(type) {
	case *NameRequest:
		if err := d.ctx.AssignName(r.Name); err != nil {
			return errors.NewNegotiationFailed(r.RequestName(), err)
		}
		metrics.RequestHandled(r.RequestName())

	case *PeerPrincipalRequest:
		if err := d.ctx.AssignName(r.Principal.Name()); err != nil {
			return errors.NewNegotiationFailed(r.RequestName(), err)
		}
		metrics.RequestHandled(r.RequestName())

	case *PasswordVerifyRequest:
		support, err := d.ctx.CredentialSupport(credential.KindPlainPassword)
		if err != nil {
			return err
		}
		if support.IsDefinitelyVerifiable() {
			verified, err := d.ctx.VerifyCredential(credential.NewPlain(r.Password))
			if err != nil {
				return err
			}
			r.Verified = verified
			metrics.RequestHandled(r.RequestName())
			return nil
		}
		support, err = d.ctx.CredentialSupport(credential.KindReversiblePassword)
		if err != nil {
			return err
		}
		if support.IsDefinitelyVerifiable() {
			// Synthesize a comparable stored-password value from the plaintext
			verified, err := d.ctx.VerifyCredential(credential.NewClearPassword(r.Password))
			if err != nil {
				return err
			}
			r.Verified = verified
			metrics.RequestHandled(r.RequestName())
			return nil
		}
		// Leave unanswered so the mechanism can try another credential type
		r.Declined = true
		metrics.RequestDeclined(r.RequestName())

	case *PasswordRequest:
		cred, err := d.ctx.Credential(credential.KindReversiblePassword)
		if err != nil {
			return err
		}
		reversible, ok := cred.(credential.Reversible)
		if !ok {
			r.Declined = true
			metrics.RequestDeclined(r.RequestName())
			return nil
		}
		clear, err := reversible.ClearText()
		if err != nil {
			// An undecodable stored password declines rather than erroring,
			// preserving mechanism fallback
			r.Declined = true
			metrics.RequestDeclined(r.RequestName())
			return nil
		}
		r.Password = clear
		metrics.RequestHandled(r.RequestName())

	case *CredentialRequest:
		for _, kind := range r.AllowedKinds {
			support, err := d.ctx.CredentialSupport(kind)
			if err != nil {
				return err
			}
			if !support.MayBeObtainable() {
				continue
			}
			cred, err := d.ctx.Credential(kind)
			if err != nil {
				return err
			}
			if cred != nil {
				r.Credential = cred
				break
			}
		}
		// No obtainable kind just falls out; some mechanisms will try
		// again with different credentials
		metrics.RequestHandled(r.RequestName())

	case *CredentialVerifyRequest:
		if r.Credential == nil {
			r.Declined = true
			metrics.RequestDeclined(r.RequestName())
			return nil
		}
		support, err := d.ctx.CredentialSupport(r.Credential.Kind())
		if err != nil {
			return err
		}
		if !support.IsDefinitelyVerifiable() {
			r.Declined = true
			metrics.RequestDeclined(r.RequestName())
			return nil
		}
		verified, err := d.ctx.VerifyCredential(r.Credential)
		if err != nil {
			return err
		}
		r.Verified = verified
		metrics.RequestHandled(r.RequestName())

	case *CredentialParameterRequest:
		// Accepted, ignored
		metrics.RequestHandled(r.RequestName())

	case *AnonymousAuthorizationRequest:
		r.Authorized = d.ctx.domain.IsAnonymousAllowed()
		metrics.RequestHandled(r.RequestName())

	case *CompleteRequest:
		if r.Succeeded {
			if err := d.ctx.Succeed(); err != nil {
				return err
			}
		} else {
			if err := d.ctx.Fail(); err != nil {
				return err
			}
		}
		metrics.RequestHandled(r.RequestName())

	case *PeerAddressRequest:
		// Reserved for address-based filtering
		metrics.RequestHandled(r.RequestName())

	case *AuthorizedIdentityRequest:
		identity, err := d.ctx.AuthorizedIdentity()
		if err != nil {
			return err
		}
		r.Identity = identity
		metrics.RequestHandled(r.RequestName())

	default:
		metrics.RequestUnsupported(request.RequestName())
		return errors.NewUnsupportedRequest(request.RequestName())
	}
	return nil
}
