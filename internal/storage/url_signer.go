package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SignedRoutePrefix is the path under which signed objects are served
	SignedRoutePrefix = "/storage/v1/object/sign/"
	// PublicRoutePrefix marks the bare public form of an object URL
	PublicRoutePrefix = "/storage/v1/object/public/"

	signedMarker = "/object/sign/"
	tokenType    = "object"
)

// ErrInvalidToken is returned when a retrieval token does not grant access to the requested object
var ErrInvalidToken = errors.New("invalid or expired object token")

// URLSigner mints and verifies retrieval URLs for stored objects.
// A token is an HS256 JWT scoped to a single bucket and object path.
type URLSigner struct {
	secret  string
	baseURL string
	now     func() time.Time
}

// NewURLSigner creates a new URL signer; baseURL is the public origin of the service
func NewURLSigner(secret, baseURL string) *URLSigner {
	return &URLSigner{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Sign returns a retrieval URL for the object valid for ttl
func (s *URLSigner) Sign(bucket, objectPath string, ttl time.Duration) (string, error) {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	if !validBucket(bucket) {
		return "", fmt.Errorf("invalid bucket: %q", bucket)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"obj":  bucket + "/" + cleaned,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
		"type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign object token: %w", err)
	}

	return s.baseURL + SignedRoutePrefix + bucket + "/" + escapeObjectPath(cleaned) + "?token=" + url.QueryEscape(tokenString), nil
}

// Verify checks that token grants access to bucket/objectPath
func (s *URLSigner) Verify(bucket, objectPath, tokenString string) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidToken
	}

	if kind, _ := claims["type"].(string); kind != tokenType {
		return fmt.Errorf("%w: token is not an object token", ErrInvalidToken)
	}

	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return ErrInvalidToken
	}
	if obj, _ := claims["obj"].(string); obj != bucket+"/"+cleaned {
		return fmt.Errorf("%w: token does not match object", ErrInvalidToken)
	}

	return nil
}

// PublicURL returns the bare, unsigned form of an object URL
func (s *URLSigner) PublicURL(bucket, objectPath string) string {
	return s.baseURL + PublicRoutePrefix + bucket + "/" + escapeObjectPath(strings.TrimLeft(objectPath, "/"))
}

// IsSignedURL reports whether raw is already in retrieval form
func IsSignedURL(raw string) bool {
	return strings.Contains(raw, signedMarker)
}

// PublicObjectPath extracts the path after the public route marker, without query or fragment.
// The result still starts with the bucket name when the URL carried one.
func PublicObjectPath(raw string) (string, bool) {
	idx := strings.Index(raw, PublicRoutePrefix)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(PublicRoutePrefix):]
	if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
		rest = rest[:cut]
	}
	unescaped, err := url.PathUnescape(rest)
	if err != nil || unescaped == "" {
		return "", false
	}
	return unescaped, true
}

// ObjectName returns the last path segment of an object URL in either form
func ObjectName(raw string) string {
	if cut := strings.IndexAny(raw, "?#"); cut >= 0 {
		raw = raw[:cut]
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		raw = raw[idx+1:]
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

func escapeObjectPath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
