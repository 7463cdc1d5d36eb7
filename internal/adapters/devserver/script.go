package devserver

// clientScript connects to the event stream, swaps stylesheets for inject
// events and reloads the page for everything else.
const clientScript = `(() => {
  if (window.__plume__) return;
  window.__plume__ = true;
  let last = null;
  function inject(hash) {
    document.querySelectorAll('link[rel="stylesheet"]').forEach((link) => {
      const url = new URL(link.href, location.href);
      if (url.origin !== location.origin) return;
      url.searchParams.set('plume', hash);
      link.href = url.toString();
    });
  }
  function connect() {
    const es = new EventSource('` + EventsPath + `');
    es.onmessage = (e) => {
      let ev;
      try { ev = JSON.parse(e.data); } catch (_) { return; }
      if (ev.hash && ev.hash === last) return;
      last = ev.hash;
      if (ev.mode === 'inject') { inject(ev.hash); } else { location.reload(); }
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
